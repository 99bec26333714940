package scoring

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

// LLMJudge layers model-written assessments on top of the deterministic
// keyword scores. Criterion scores always come from the heuristic so the
// ranking stays reproducible; the model contributes strengths, weaknesses
// and reasoning grounded in the evidence.
type LLMJudge struct {
	llm       llm.Client
	heuristic HeuristicJudge
}

// NewLLMJudge creates an LLMJudge.
func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{llm: client}
}

// ScoreVendor implements Judge.
func (j *LLMJudge) ScoreVendor(ctx context.Context, findings *types.ResearchFindings, evalCtx *types.EvaluationContext) (*types.VendorScore, error) {
	vs, err := j.heuristic.ScoreVendor(ctx, findings, evalCtx)
	if err != nil {
		return nil, err
	}

	assessment, err := j.assess(ctx, findings, evalCtx, vs.CriterionScores)
	if err != nil {
		// Heuristic strengths and weaknesses stand
		return vs, nil
	}

	if len(assessment.Strengths) > 0 {
		vs.Strengths = assessment.Strengths
	}
	if len(assessment.Weaknesses) > 0 {
		vs.Weaknesses = assessment.Weaknesses
	}
	if assessment.Reasoning != "" {
		vs.Reasoning = map[string]string{"overall": assessment.Reasoning}
	}
	return vs, nil
}

type vendorAssessment struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Reasoning  string   `json:"reasoning"`
}

func (j *LLMJudge) assess(ctx context.Context, findings *types.ResearchFindings, evalCtx *types.EvaluationContext, scores map[string]float64) (*vendorAssessment, error) {
	template := prompts.MustGet("synthesis.json", "vendor-assessment")
	prompt := prompts.Format(template, map[string]string{
		"Vendor":   findings.VendorName,
		"Context":  evalCtx.Summary(),
		"Scores":   formatScores(scores),
		"Evidence": formatEvidence(findings),
	})

	responseText, err := j.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.Assessment, responseText); err != nil {
		return nil, err
	}

	var assessment vendorAssessment
	if err := json.Unmarshal([]byte(responseText), &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func formatScores(scores map[string]float64) string {
	parts := make([]string, 0, len(types.Dimensions()))
	for _, dim := range types.Dimensions() {
		if score, ok := scores[dim]; ok {
			parts = append(parts, fmt.Sprintf("%s: %.1f", dim, score))
		}
	}
	return strings.Join(parts, "\n")
}

func formatEvidence(findings *types.ResearchFindings) string {
	var b strings.Builder
	for _, dim := range types.Dimensions() {
		for _, bullet := range findings.EvidenceFor(dim) {
			fmt.Fprintf(&b, "[%s] %s\n", dim, bullet)
		}
	}
	if b.Len() == 0 {
		return "(no evidence)"
	}
	return strings.TrimRight(b.String(), "\n")
}
