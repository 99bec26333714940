package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

func TestScoreFromEvidence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		inverse  bool
		expected float64
	}{
		{"empty is neutral", "", false, 5.0},
		{"one positive", "The API is excellent.", false, 8.0},
		{"three positives capped", "excellent great strong robust comprehensive", false, 10.0},
		{"one negative", "Documentation is poor.", false, 4.0},
		{"four negatives floored", "poor weak limited slow unreliable", false, 1.0},
		{"balanced is six", "excellent but poor", false, 6.0},
		{"inverse flips negatives up", "Setup is difficult and complex.", true, 9.0},
		{"inverse flips positives down", "Pricing looks great and comprehensive.", true, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreFromEvidence(tt.text, tt.inverse))
		})
	}
}

func TestHeuristicJudge_ScoreVendor(t *testing.T) {
	findings := types.NewResearchFindings("Stripe")
	findings.AddEvidence(types.DimAPIQuality, "Excellent, comprehensive API docs.")
	findings.AddEvidence(types.DimSupportQuality, "Support is slow and limited.")

	vs, err := HeuristicJudge{}.ScoreVendor(context.Background(), findings, &types.EvaluationContext{Category: "payments"})
	require.NoError(t, err)

	assert.Equal(t, "Stripe", vs.VendorName)
	assert.Len(t, vs.CriterionScores, len(types.Dimensions()))
	assert.Equal(t, 9.0, vs.CriterionScores[types.DimAPIQuality])
	assert.Equal(t, 3.0, vs.CriterionScores[types.DimSupportQuality])
	assert.Equal(t, NeutralScore, vs.CriterionScores[types.DimPerformance])
}

func TestScoreVendors_SortedByWeightedTotal(t *testing.T) {
	weights := types.WeightTable{
		types.DimAPIQuality:     {Name: types.DimAPIQuality, Current: 50},
		types.DimSupportQuality: {Name: types.DimSupportQuality, Current: 50},
	}

	good := types.NewResearchFindings("Good")
	good.AddEvidence(types.DimAPIQuality, "excellent and reliable")
	bad := types.NewResearchFindings("Bad")
	bad.AddEvidence(types.DimAPIQuality, "poor and unreliable")

	scores := ScoreVendors(context.Background(), HeuristicJudge{}, []*types.ResearchFindings{bad, good}, weights, &types.EvaluationContext{})
	require.Len(t, scores, 2)
	assert.Equal(t, "Good", scores[0].VendorName)
	assert.Greater(t, scores[0].WeightedTotal, scores[1].WeightedTotal)
}

func TestScoreVendors_WeightedTotalExact(t *testing.T) {
	// The formula is the contract: 8*0.5 + 6*0.3 + 9*0.2 = 7.6
	weights := types.WeightTable{
		"a": {Name: "a", Current: 50},
		"b": {Name: "b", Current: 30},
		"c": {Name: "c", Current: 20},
	}
	total := types.WeightedTotal(map[string]float64{"a": 8, "b": 6, "c": 9}, weights)
	assert.InDelta(t, 7.6, total, 1e-9)
}

func TestExtractStrengthsWeaknesses(t *testing.T) {
	findings := types.NewResearchFindings("X")
	findings.HiddenRisks = []types.HiddenRisk{
		{Type: "pricing_trap", Description: "Costs explode past the free tier"},
	}

	scores := map[string]float64{
		"api_quality":     9.0,
		"sdk_quality":     8.0,
		"performance":     7.0,
		"scalability":     6.0,
		"support_quality": 4.0,
		"pricing":         3.0,
	}

	strengths, weaknesses := ExtractStrengthsWeaknesses(findings, scores)

	require.Len(t, strengths, 3)
	assert.Contains(t, strengths[0], "Api Quality")
	assert.Contains(t, strengths[0], "9.0/10")

	require.Len(t, weaknesses, 3)
	assert.Contains(t, weaknesses[0], "Pricing")
	assert.Contains(t, weaknesses[2], "Pricing Trap")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Uptime Reliability", DisplayName("uptime_reliability"))
	assert.Equal(t, "Pricing", DisplayName("pricing"))
}

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GetModel(_ llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                    { return nil }

func TestLLMJudge_UsesAssessment(t *testing.T) {
	client := &fakeClient{response: `{
		"strengths": ["Deep India market coverage"],
		"weaknesses": ["Limited EU presence"],
		"reasoning": "Strong regional fit for the stated context."
	}`}

	findings := types.NewResearchFindings("Razorpay")
	findings.AddEvidence(types.DimAPIQuality, "excellent docs")

	vs, err := NewLLMJudge(client).ScoreVendor(context.Background(), findings, &types.EvaluationContext{Category: "payments"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Deep India market coverage"}, vs.Strengths)
	assert.Equal(t, []string{"Limited EU presence"}, vs.Weaknesses)
	assert.Equal(t, "Strong regional fit for the stated context.", vs.Reasoning["overall"])
	// Scores remain heuristic
	assert.Equal(t, 8.0, vs.CriterionScores[types.DimAPIQuality])
}

func TestLLMJudge_FallsBackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}

	findings := types.NewResearchFindings("Stripe")
	findings.AddEvidence(types.DimAPIQuality, "excellent comprehensive docs")

	vs, err := NewLLMJudge(client).ScoreVendor(context.Background(), findings, &types.EvaluationContext{})
	require.NoError(t, err)
	assert.NotEmpty(t, vs.Strengths)
	assert.Nil(t, vs.Reasoning)
}
