package weighting

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

func plainContext() *types.EvaluationContext {
	return &types.EvaluationContext{Category: "cdn", Domain: "general", Region: "Global", Scale: "startup"}
}

func complianceContext() *types.EvaluationContext {
	return &types.EvaluationContext{
		Category:   "payment gateway",
		Domain:     "fintech",
		Region:     "India",
		Scale:      "startup",
		Compliance: []string{"RBI", "PCI-DSS"},
	}
}

func TestInitialWeights_SumTo100(t *testing.T) {
	table := InitialWeights(plainContext())
	assert.InDelta(t, 100.0, table.Total(), 1e-9)
	assert.Len(t, table, len(types.Dimensions()))

	// Balanced rubric gives compliance nothing
	assert.Equal(t, 0.0, table[types.DimCompliance].Current)
}

func TestInitialWeights_ComplianceFunded(t *testing.T) {
	table := InitialWeights(complianceContext())
	assert.InDelta(t, 100.0, table.Total(), 1e-9)
	assert.Greater(t, table[types.DimCompliance].Current, 10.0)

	// Initial mirrors the normalized starting point
	for _, w := range table {
		assert.Equal(t, w.Initial, w.Current, w.Name)
	}
}

func TestAdjustWeights_UptimeDiscovery(t *testing.T) {
	evalCtx := plainContext()
	initial := InitialWeights(evalCtx)
	uptimeBefore := initial[types.DimUptimeReliability].Current

	findings := types.NewResearchFindings("Acme")
	findings.AddEvidence(types.DimUptimeReliability, "Three major outages reported in the last quarter.")

	adjuster := NewAdjuster(nil)
	adjusted, adjustments := adjuster.AdjustWeights(context.Background(), initial, []*types.ResearchFindings{findings}, evalCtx)

	require.Len(t, adjustments, 1)
	adj := adjustments[0]
	assert.Equal(t, types.DimUptimeReliability, adj.Criterion)
	assert.InDelta(t, 10.0, adj.Delta(), 1e-9)
	assert.Equal(t, []string{"SLA investigation"}, adj.FollowUpResearch)

	// The initial table is untouched
	assert.Equal(t, uptimeBefore, initial[types.DimUptimeReliability].Current)

	// Adjusted table is renormalized to exactly 100
	assert.InDelta(t, 100.0, adjusted.Total(), 1e-9)
	assert.Greater(t, adjusted[types.DimUptimeReliability].Current, uptimeBefore)
	assert.NotEmpty(t, adjusted[types.DimUptimeReliability].TriggeredBy)
}

func TestAdjustWeights_ImmaterialAdjustmentDropped(t *testing.T) {
	evalCtx := plainContext()
	initial := InitialWeights(evalCtx)

	findings := types.NewResearchFindings("LockBox")
	findings.HiddenRisks = []types.HiddenRisk{
		{Type: "lockin", Severity: "low", Description: "Proprietary export format"},
	}

	adjuster := NewAdjuster(nil)
	_, adjustments := adjuster.AdjustWeights(context.Background(), initial, []*types.ResearchFindings{findings}, evalCtx)

	// lockin earns 4 points, below the 5 point materiality threshold
	assert.Empty(t, adjustments)
}

func TestAdjustWeights_PriorityMultiplierMakesItMaterial(t *testing.T) {
	evalCtx := plainContext()
	evalCtx.Priorities = []string{"integration"}
	initial := InitialWeights(evalCtx)

	findings := types.NewResearchFindings("LockBox")
	findings.HiddenRisks = []types.HiddenRisk{
		{Type: "lockin", Severity: "low", Description: "Proprietary export format"},
	}

	adjuster := NewAdjuster(nil)
	_, adjustments := adjuster.AdjustWeights(context.Background(), initial, []*types.ResearchFindings{findings}, evalCtx)

	// 4 * 1.5 = 6 points, material
	require.Len(t, adjustments, 1)
	assert.Equal(t, types.DimIntegrationComplexity, adjustments[0].Criterion)
	assert.InDelta(t, 6.0, adjustments[0].Delta(), 1e-9)
}

func TestAdjustWeights_ClampedAtMax(t *testing.T) {
	evalCtx := plainContext()
	initial := InitialWeights(evalCtx)
	initial[types.DimUptimeReliability].Current = 35.0

	findings := types.NewResearchFindings("Flaky")
	findings.AddEvidence(types.DimUptimeReliability, "Frequent downtime and incident reports.")

	adjuster := NewAdjuster(nil)
	_, adjustments := adjuster.AdjustWeights(context.Background(), initial, []*types.ResearchFindings{findings}, evalCtx)

	require.Len(t, adjustments, 1)
	assert.Equal(t, 40.0, adjustments[0].After)
}

func TestAdjustWeights_ClampBelowMaterialityDropped(t *testing.T) {
	evalCtx := plainContext()
	initial := InitialWeights(evalCtx)
	initial[types.DimUptimeReliability].Current = 38.0

	findings := types.NewResearchFindings("Flaky")
	findings.AddEvidence(types.DimUptimeReliability, "An outage last week.")

	adjuster := NewAdjuster(nil)
	_, adjustments := adjuster.AdjustWeights(context.Background(), initial, []*types.ResearchFindings{findings}, evalCtx)

	// Clamp leaves only +2, which is immaterial
	assert.Empty(t, adjustments)
}

func TestAdjustmentAmount_KnownTypes(t *testing.T) {
	evalCtx := plainContext()

	tests := []struct {
		discoveryType string
		criterion     string
		expected      float64
	}{
		{DiscoveryUptimeIssue, types.DimUptimeReliability, 10.0},
		{DiscoveryMissingSDK, types.DimIntegrationComplexity, 8.0},
		{DiscoveryPricingConcern, types.DimPricing, 7.0},
		{DiscoveryComplianceGap, types.DimCompliance, 12.0},
		{hiddenRiskPrefix + "maintainer", types.DimVendorHealth, 5.0},
		{hiddenRiskPrefix + "pricing_trap", types.DimPricing, 8.0},
		{hiddenRiskPrefix + "lockin", types.DimIntegrationComplexity, 4.0},
		{hiddenRiskPrefix + "acquisition", types.DimVendorHealth, 5.0},
	}
	for _, tt := range tests {
		d := Discovery{Type: tt.discoveryType, Criterion: tt.criterion}
		assert.Equal(t, tt.expected, AdjustmentAmount(d, evalCtx), tt.discoveryType)
	}
}

func TestExtractDiscoveries(t *testing.T) {
	evalCtx := complianceContext()
	evalCtx.TechStack = []string{"Go", "Rust"}

	findings := types.NewResearchFindings("Acme")
	findings.AddEvidence(types.DimUptimeReliability, "Reported outage in March.")
	findings.AddEvidence(types.DimSDKQuality, "Official SDKs exist for Go, Python and Java.")
	findings.AddEvidence(types.DimPricing, "Costs jump sharply past the free tier.")
	findings.AddEvidence(types.DimCompliance, "The vendor is not certified for RBI data locality.")
	findings.HiddenRisks = []types.HiddenRisk{
		{Type: "acquisition", Description: "Acquired by BigCorp", Evidence: "press"},
	}

	discoveries := ExtractDiscoveries([]*types.ResearchFindings{findings}, evalCtx)

	byType := make(map[string]Discovery)
	for _, d := range discoveries {
		byType[d.Type] = d
	}

	assert.Contains(t, byType, DiscoveryUptimeIssue)
	assert.Contains(t, byType, DiscoveryPricingConcern)
	assert.Contains(t, byType, DiscoveryComplianceGap)
	assert.Contains(t, byType, hiddenRiskPrefix+"acquisition")

	// Go is covered, Rust is not
	require.Contains(t, byType, DiscoveryMissingSDK)
	assert.Contains(t, byType[DiscoveryMissingSDK].Description, "Rust")
	assert.NotContains(t, byType[DiscoveryMissingSDK].Description, "Go,")
}

func TestNormalizeRescalesProportionally(t *testing.T) {
	table := types.WeightTable{
		"a": {Name: "a", Current: 35},
		"b": {Name: "b", Current: 45},
		"c": {Name: "c", Current: 25},
		"d": {Name: "d", Current: 10},
	}
	table.Normalize()

	assert.InDelta(t, 100.0, table.Total(), 1e-9)
	// Proportions preserved: b/a ratio unchanged
	ratio := table["b"].Current / table["a"].Current
	assert.InDelta(t, 45.0/35.0, ratio, 1e-9)
	assert.True(t, math.Abs(table["d"].Current-100.0*10.0/115.0) < 1e-6)
}
