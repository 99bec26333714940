package types

import (
	"math"
	"sort"
)

// CriterionWeight is the percentage importance assigned to one scoring
// dimension. Initial is the rubric default; Current is mutated only by the
// weight adjustment stage.
type CriterionWeight struct {
	Name        string   `json:"name"`
	Initial     float64  `json:"initial_weight"`
	Current     float64  `json:"current_weight"`
	TriggeredBy []string `json:"triggered_by,omitempty"`
}

// WeightAdjustment records a single weight change and the discovery that
// justified it.
type WeightAdjustment struct {
	Criterion        string   `json:"criterion"`
	Discovery        string   `json:"discovery"`
	Evidence         string   `json:"evidence,omitempty"`
	Before           float64  `json:"weight_before"`
	After            float64  `json:"weight_after"`
	FollowUpResearch []string `json:"follow_up_research,omitempty"`
}

// Delta returns the signed size of the adjustment in percentage points.
func (a *WeightAdjustment) Delta() float64 {
	return a.After - a.Before
}

// WeightTable is a set of criterion weights keyed by criterion name.
type WeightTable map[string]*CriterionWeight

// Clone returns a deep copy of the table. Adjustment operates on a clone so
// the initial table survives for reporting.
func (t WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(t))
	for name, w := range t {
		cp := *w
		cp.TriggeredBy = append([]string(nil), w.TriggeredBy...)
		out[name] = &cp
	}
	return out
}

// Total returns the sum of current weights.
func (t WeightTable) Total() float64 {
	sum := 0.0
	for _, w := range t {
		sum += w.Current
	}
	return sum
}

// Normalize proportionally rescales current weights so they sum to exactly
// 100. A zero-total table falls back to equal weights. This runs after every
// adjustment round regardless of what the proposal claimed.
func (t WeightTable) Normalize() {
	total := t.Total()
	if total == 0 {
		if len(t) == 0 {
			return
		}
		equal := 100.0 / float64(len(t))
		for _, w := range t {
			w.Current = equal
		}
		return
	}
	factor := 100.0 / total
	for _, w := range t {
		w.Current *= factor
	}
	// Absorb float residue into the largest weight so the table sums to
	// exactly 100 when rounded values are displayed.
	residue := 100.0 - t.Total()
	if math.Abs(residue) > 1e-9 {
		t.largest().Current += residue
	}
}

func (t WeightTable) largest() *CriterionWeight {
	var max *CriterionWeight
	for _, w := range t {
		if max == nil || w.Current > max.Current {
			max = w
		}
	}
	return max
}

// Sorted returns the weights in descending current-weight order, ties broken
// by name for stable output.
func (t WeightTable) Sorted() []*CriterionWeight {
	out := make([]*CriterionWeight, 0, len(t))
	for _, w := range t {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current > out[j].Current
		}
		return out[i].Name < out[j].Name
	})
	return out
}
