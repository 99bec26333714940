// Package synthesis produces the final recommendation: it combines scores,
// discoveries and risks into a structured result and renders the report.
package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/prompts"
	"github.com/jonathan/vendor-evaluator/internal/schemas"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// ErrNoScores indicates synthesis was invoked with no scored vendors.
var ErrNoScores = errors.New("no vendor scores to synthesize")

// Input carries everything the earlier phases produced.
type Input struct {
	Context     *types.EvaluationContext
	Candidates  []types.Candidate
	Findings    []*types.ResearchFindings
	Weights     types.WeightTable
	Adjustments []types.WeightAdjustment
	Scores      []types.VendorScore
}

// Synthesizer builds the final recommendation. With a nil client the
// recommendation text falls back to the top-scored vendor.
type Synthesizer struct {
	llm llm.Client
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{llm: client}
}

// Synthesize assembles the recommendation from the accumulated run
// artifacts. The recommended vendor is always one of the scored vendors; a
// model answer naming anything else is replaced by the score leader.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) (*types.Recommendation, error) {
	if len(in.Scores) == 0 {
		return nil, ErrNoScores
	}

	discoveries := KeyDiscoveries(in.Adjustments)
	risks := types.CollectHiddenRisks(in.Findings)
	matrix := ComparisonMatrix(in.Scores, in.Weights)

	rec := &types.Recommendation{
		ContextSummary:    in.Context.Summary(),
		Candidates:        types.CandidateNames(in.Candidates),
		KeyDiscoveries:    discoveries,
		WeightAdjustments: in.Adjustments,
		FinalWeights:      currentWeights(in.Weights),
		VendorScores:      in.Scores,
		ComparisonMatrix:  matrix,
		HiddenRisks:       risks,
	}

	s.recommend(ctx, in, discoveries, risks, rec)
	rec.Report = RenderReport(rec)
	return rec, nil
}

// recommend fills the recommendation sections, preferring the model's answer
// and degrading to the score leader when the model is unavailable or names a
// vendor that was never scored.
func (s *Synthesizer) recommend(ctx context.Context, in Input, discoveries []types.Discovery, risks []types.HiddenRisk, rec *types.Recommendation) {
	if s.llm != nil {
		if answer, err := s.generate(ctx, in, discoveries, risks); err == nil {
			if scored(in.Scores, answer.Recommended) {
				rec.RecommendedVendor = answer.Recommended
				rec.Rationale = answer.Rationale
				rec.TradeOffs = answer.TradeOffs
				rec.Alternatives = convertAlternatives(answer.Alternatives)
				rec.NextSteps = answer.NextSteps
				return
			}
		}
	}

	top := in.Scores[0]
	rec.RecommendedVendor = top.VendorName
	rec.Rationale = fmt.Sprintf("Recommended based on highest weighted score (%.1f/10)", top.WeightedTotal)
	rec.TradeOffs = top.Weaknesses
}

type modelRecommendation struct {
	Recommended  string   `json:"recommended"`
	Rationale    string   `json:"rationale"`
	TradeOffs    []string `json:"trade_offs"`
	Alternatives []struct {
		Condition string `json:"condition"`
		Vendor    string `json:"vendor"`
		Reason    string `json:"reason"`
	} `json:"alternatives"`
	NextSteps []string `json:"next_steps"`
}

func (s *Synthesizer) generate(ctx context.Context, in Input, discoveries []types.Discovery, risks []types.HiddenRisk) (*modelRecommendation, error) {
	template := prompts.MustGet("synthesis.json", "final-recommendation")
	prompt := prompts.Format(template, map[string]string{
		"Context":     in.Context.Summary(),
		"Scores":      formatScores(in.Scores),
		"Discoveries": formatDiscoveries(discoveries),
		"Risks":       formatRisks(risks),
	})

	responseText, err := s.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.Recommendation, responseText); err != nil {
		return nil, err
	}

	var answer modelRecommendation
	if err := json.Unmarshal([]byte(responseText), &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func scored(scores []types.VendorScore, name string) bool {
	for _, v := range scores {
		if strings.EqualFold(strings.TrimSpace(name), v.VendorName) {
			return true
		}
	}
	return false
}

func convertAlternatives(alts []struct {
	Condition string `json:"condition"`
	Vendor    string `json:"vendor"`
	Reason    string `json:"reason"`
}) []types.Alternative {
	out := make([]types.Alternative, 0, len(alts))
	for _, a := range alts {
		text := fmt.Sprintf("If %s: consider %s", a.Condition, a.Vendor)
		if a.Reason != "" {
			text += " because " + a.Reason
		}
		out = append(out, types.Alternative{
			Condition: a.Condition,
			Vendor:    a.Vendor,
			Reason:    a.Reason,
			Text:      text,
		})
	}
	return out
}

func currentWeights(weights types.WeightTable) map[string]float64 {
	out := make(map[string]float64, len(weights))
	for name, w := range weights {
		out[name] = w.Current
	}
	return out
}

func formatScores(scores []types.VendorScore) string {
	blocks := make([]string, 0, len(scores))
	for _, v := range scores {
		blocks = append(blocks, fmt.Sprintf("%s: Weighted Score %.1f/10\nStrengths: %s\nWeaknesses: %s",
			v.VendorName, v.WeightedTotal, strings.Join(v.Strengths, ", "), strings.Join(v.Weaknesses, ", ")))
	}
	return strings.Join(blocks, "\n\n")
}

func formatDiscoveries(discoveries []types.Discovery) string {
	if len(discoveries) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(discoveries))
	for _, d := range discoveries {
		lines = append(lines, fmt.Sprintf("- %s: %s", d.Finding, d.Impact))
	}
	return strings.Join(lines, "\n")
}

func formatRisks(risks []types.HiddenRisk) string {
	if len(risks) == 0 {
		return "None detected"
	}
	lines := make([]string, 0, len(risks))
	for _, r := range risks {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Vendor, truncate(r.Description, 100)))
	}
	return strings.Join(lines, "\n")
}
