package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(weights map[string]float64) WeightTable {
	t := make(WeightTable, len(weights))
	for name, w := range weights {
		t[name] = &CriterionWeight{Name: name, Initial: w, Current: w}
	}
	return t
}

func TestNormalize_RescalesToExactly100(t *testing.T) {
	// {35,45,25,10} sums to 115 and must be rescaled proportionally.
	table := newTable(map[string]float64{
		"pricing":     35,
		"uptime":      45,
		"compliance":  25,
		"sdk_quality": 10,
	})

	table.Normalize()

	assert.InDelta(t, 100.0, table.Total(), 1e-9)
	// Proportions preserved: 45/115 of 100.
	assert.InDelta(t, 45.0/115.0*100.0, table["uptime"].Current, 1e-6)
	assert.InDelta(t, 10.0/115.0*100.0, table["sdk_quality"].Current, 1e-6)
}

func TestNormalize_AlreadyNormalizedIsStable(t *testing.T) {
	table := newTable(map[string]float64{"a": 50, "b": 30, "c": 20})

	table.Normalize()

	assert.InDelta(t, 50.0, table["a"].Current, 1e-9)
	assert.InDelta(t, 30.0, table["b"].Current, 1e-9)
	assert.InDelta(t, 20.0, table["c"].Current, 1e-9)
}

func TestNormalize_ZeroTotalFallsBackToEqualWeights(t *testing.T) {
	table := newTable(map[string]float64{"a": 0, "b": 0, "c": 0, "d": 0})

	table.Normalize()

	for _, w := range table {
		assert.InDelta(t, 25.0, w.Current, 1e-9)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	table := newTable(map[string]float64{"a": 60, "b": 40})
	table["a"].TriggeredBy = []string{"outage reports"}

	clone := table.Clone()
	clone["a"].Current = 10
	clone["a"].TriggeredBy = append(clone["a"].TriggeredBy, "extra")

	assert.InDelta(t, 60.0, table["a"].Current, 1e-9)
	assert.Len(t, table["a"].TriggeredBy, 1)
}

func TestSorted_DescendingWithStableTies(t *testing.T) {
	table := newTable(map[string]float64{"beta": 30, "alpha": 30, "gamma": 40})

	sorted := table.Sorted()

	require.Len(t, sorted, 3)
	assert.Equal(t, "gamma", sorted[0].Name)
	assert.Equal(t, "alpha", sorted[1].Name)
	assert.Equal(t, "beta", sorted[2].Name)
}

func TestWeightedTotal_KnownValue(t *testing.T) {
	// The formula is the contract: 8*0.5 + 6*0.3 + 9*0.2 = 7.6
	weights := newTable(map[string]float64{"a": 50, "b": 30, "c": 20})
	scores := map[string]float64{"a": 8, "b": 6, "c": 9}

	total := WeightedTotal(scores, weights)

	assert.InDelta(t, 7.6, total, 1e-9)
}

func TestWeightedTotal_IgnoresUnknownCriteria(t *testing.T) {
	weights := newTable(map[string]float64{"a": 100})
	scores := map[string]float64{"a": 5, "not_in_rubric": 10}

	assert.InDelta(t, 5.0, WeightedTotal(scores, weights), 1e-9)
}

func TestWeightedTotal_BoundedByTen(t *testing.T) {
	weights := newTable(map[string]float64{"a": 50, "b": 50})
	scores := map[string]float64{"a": 10, "b": 10}

	total := WeightedTotal(scores, weights)

	assert.LessOrEqual(t, total, 10.0)
	assert.GreaterOrEqual(t, total, 0.0)
}
