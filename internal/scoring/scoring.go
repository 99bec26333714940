// Package scoring converts research evidence into per-criterion scores on a
// 0-10 scale and ranks candidates by weighted total.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// Judge scores a single vendor's research findings.
type Judge interface {
	ScoreVendor(ctx context.Context, findings *types.ResearchFindings, evalCtx *types.EvaluationContext) (*types.VendorScore, error)
}

// NeutralScore is assigned to a dimension with no evidence.
const NeutralScore = 5.0

// inverseDimensions are scored with polarity flipped: for these, negative
// language (complex, expensive) is what reviewers write when the dimension
// is actually a problem, so negatives lower the score twice as often as
// marketing positives raise it.
var inverseDimensions = map[string]bool{
	types.DimIntegrationComplexity: true,
	types.DimPricing:               true,
}

var positiveWords = []string{"excellent", "great", "strong", "robust", "high quality", "reliable", "fast", "comprehensive"}

var negativeWords = []string{"poor", "weak", "limited", "slow", "unreliable", "lacking", "difficult", "complex", "expensive"}

// ScoreVendors scores every candidate with the judge, computes weighted
// totals and returns the scores sorted best-first. Judge failures for a
// single vendor degrade to heuristic scoring rather than failing the batch.
func ScoreVendors(ctx context.Context, judge Judge, findings []*types.ResearchFindings, weights types.WeightTable, evalCtx *types.EvaluationContext) []types.VendorScore {
	heuristic := HeuristicJudge{}
	scores := make([]types.VendorScore, 0, len(findings))

	for _, f := range findings {
		vs, err := judge.ScoreVendor(ctx, f, evalCtx)
		if err != nil {
			vs, _ = heuristic.ScoreVendor(ctx, f, evalCtx)
		}
		vs.WeightedTotal = types.WeightedTotal(vs.CriterionScores, weights)
		scores = append(scores, *vs)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].WeightedTotal != scores[j].WeightedTotal {
			return scores[i].WeightedTotal > scores[j].WeightedTotal
		}
		return scores[i].VendorName < scores[j].VendorName
	})
	return scores
}

// HeuristicJudge scores evidence with deterministic keyword analysis. It is
// the fallback when no LLM is available and the baseline the LLM judge
// builds on.
type HeuristicJudge struct{}

// ScoreVendor implements Judge.
func (HeuristicJudge) ScoreVendor(_ context.Context, findings *types.ResearchFindings, _ *types.EvaluationContext) (*types.VendorScore, error) {
	criterionScores := make(map[string]float64, len(types.Dimensions()))
	for _, dim := range types.Dimensions() {
		text := strings.Join(findings.EvidenceFor(dim), " ")
		criterionScores[dim] = ScoreFromEvidence(text, inverseDimensions[dim])
	}

	strengths, weaknesses := ExtractStrengthsWeaknesses(findings, criterionScores)
	return &types.VendorScore{
		VendorName:      findings.VendorName,
		CriterionScores: criterionScores,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
	}, nil
}

// ScoreFromEvidence maps evidence text to a 0-10 score by counting positive
// and negative indicators. Missing evidence is neutral. When inverse is set
// the polarity of the indicators flips.
func ScoreFromEvidence(text string, inverse bool) float64 {
	if strings.TrimSpace(text) == "" {
		return NeutralScore
	}

	lower := strings.ToLower(text)
	positive := countMatches(lower, positiveWords)
	negative := countMatches(lower, negativeWords)

	if inverse {
		positive, negative = negative, positive
	}

	var score float64
	switch {
	case positive > negative:
		score = 7.0 + float64(min(positive, 3))
	case negative > positive:
		score = 5.0 - float64(min(negative, 4))
	default:
		score = 6.0
	}

	if score < 1.0 {
		return 1.0
	}
	if score > 10.0 {
		return 10.0
	}
	return score
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// ExtractStrengthsWeaknesses derives up to three strengths (criteria
// scoring at least 7) and three weaknesses (criteria at 5 or below, with
// hidden risks appended).
func ExtractStrengthsWeaknesses(findings *types.ResearchFindings, scores map[string]float64) ([]string, []string) {
	type entry struct {
		criterion string
		score     float64
	}
	sorted := make([]entry, 0, len(scores))
	for criterion, score := range scores {
		sorted = append(sorted, entry{criterion, score})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].criterion < sorted[j].criterion
	})

	var strengths []string
	for _, e := range sorted {
		if len(strengths) == 3 || e.score < 7.0 {
			break
		}
		strengths = append(strengths, fmt.Sprintf("Strong %s (Score: %.1f/10)", DisplayName(e.criterion), e.score))
	}

	var weaknesses []string
	for i := len(sorted) - 1; i >= 0 && len(weaknesses) < 3; i-- {
		if sorted[i].score > 5.0 {
			break
		}
		weaknesses = append(weaknesses, fmt.Sprintf("Weaker %s (Score: %.1f/10)", DisplayName(sorted[i].criterion), sorted[i].score))
	}

	for _, risk := range findings.HiddenRisks {
		if len(weaknesses) == 3 {
			break
		}
		weaknesses = append(weaknesses, fmt.Sprintf("%s: %s", DisplayName(risk.Type), truncate(risk.Description, 80)))
	}

	return strengths, weaknesses
}

// DisplayName turns a snake_case criterion name into a title-cased label.
func DisplayName(criterion string) string {
	words := strings.Split(criterion, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
