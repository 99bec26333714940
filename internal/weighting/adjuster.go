package weighting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/prompts"
	"github.com/jonathan/vendor-evaluator/internal/schemas"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// Base adjustment amounts per discovery type, in percentage points.
var adjustmentAmounts = map[string]float64{
	DiscoveryUptimeIssue:              10.0,
	DiscoveryMissingSDK:               8.0,
	DiscoveryPricingConcern:           7.0,
	DiscoveryComplianceGap:            12.0,
	hiddenRiskPrefix + "maintainer":   5.0,
	hiddenRiskPrefix + "pricing_trap": 8.0,
	hiddenRiskPrefix + "lockin":       4.0,
}

const defaultAdjustmentAmount = 5.0

// priorityMultiplier scales an adjustment when the discovery hits a stated
// priority.
const priorityMultiplier = 1.5

// Adjuster applies research discoveries to the rubric. The client is
// optional; with a nil client follow-up research suggestions fall back to
// the built-in defaults.
type Adjuster struct {
	llm llm.Client
}

// NewAdjuster creates an Adjuster.
func NewAdjuster(client llm.Client) *Adjuster {
	return &Adjuster{llm: client}
}

// AdjustWeights processes discoveries against a clone of the initial table.
// Adjustments below the materiality threshold are dropped, weights are
// clamped to [MinWeight, MaxWeight], and the final table is renormalized to
// sum to exactly 100. The initial table is never mutated.
func (a *Adjuster) AdjustWeights(ctx context.Context, initial types.WeightTable, findings []*types.ResearchFindings, evalCtx *types.EvaluationContext) (types.WeightTable, []types.WeightAdjustment) {
	current := initial.Clone()
	discoveries := ExtractDiscoveries(findings, evalCtx)

	var adjustments []types.WeightAdjustment
	for _, d := range discoveries {
		adj, ok := a.processDiscovery(ctx, d, current, evalCtx)
		if !ok {
			continue
		}
		adjustments = append(adjustments, adj)
		cw := current[adj.Criterion]
		cw.Current = adj.After
		cw.TriggeredBy = append(cw.TriggeredBy, d.Description)
	}

	current.Normalize()
	return current, adjustments
}

func (a *Adjuster) processDiscovery(ctx context.Context, d Discovery, current types.WeightTable, evalCtx *types.EvaluationContext) (types.WeightAdjustment, bool) {
	cw, ok := current[d.Criterion]
	if !ok {
		return types.WeightAdjustment{}, false
	}

	amount := AdjustmentAmount(d, evalCtx)
	before := cw.Current
	after := clampWeight(before + amount)

	if after-before < MaterialityThreshold && before-after < MaterialityThreshold {
		return types.WeightAdjustment{}, false
	}

	adj := types.WeightAdjustment{
		Criterion:        d.Criterion,
		Discovery:        d.Description,
		Evidence:         d.Evidence,
		Before:           before,
		After:            after,
		FollowUpResearch: a.followUps(ctx, d, current),
	}
	return adj, true
}

// AdjustmentAmount returns the signed adjustment a discovery earns, scaled
// up when it matches a stated priority.
func AdjustmentAmount(d Discovery, evalCtx *types.EvaluationContext) float64 {
	amount, ok := adjustmentAmounts[d.Type]
	if !ok {
		amount = defaultAdjustmentAmount
	}
	for _, priority := range evalCtx.Priorities {
		if priority != "" && strings.Contains(strings.ToLower(d.Criterion), strings.ToLower(priority)) {
			amount *= priorityMultiplier
			break
		}
	}
	return amount
}

// followUps asks the model what additional research the discovery triggers.
// Built-in suggestions cover the common cases when the model is unavailable
// or returns garbage.
func (a *Adjuster) followUps(ctx context.Context, d Discovery, current types.WeightTable) []string {
	defaults := defaultFollowUps(d.Type)
	if a.llm == nil {
		return defaults
	}

	template := prompts.MustGet("weighting.json", "propose-adjustments")
	prompt := prompts.Format(template, map[string]string{
		"Discovery": d.Description,
		"Context":   d.Evidence,
		"Weights":   formatWeights(current),
	})

	responseText, err := a.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return defaults
	}
	if err := schemas.Validate(schemas.Adjustments, responseText); err != nil {
		return defaults
	}

	var proposals []struct {
		Criterion string `json:"criterion"`
		FollowUp  string `json:"follow_up"`
	}
	if err := json.Unmarshal([]byte(responseText), &proposals); err != nil {
		return defaults
	}

	out := append([]string(nil), defaults...)
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[s] = true
	}
	for _, p := range proposals {
		f := strings.TrimSpace(p.FollowUp)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func defaultFollowUps(discoveryType string) []string {
	switch discoveryType {
	case DiscoveryUptimeIssue:
		return []string{"SLA investigation"}
	case DiscoveryMissingSDK:
		return []string{"Custom integration effort estimate"}
	default:
		return nil
	}
}

func formatWeights(table types.WeightTable) string {
	parts := make([]string, 0, len(table))
	for _, w := range table.Sorted() {
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", w.Name, w.Current))
	}
	return strings.Join(parts, ", ")
}
