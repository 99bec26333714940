package types

// VendorScore holds the per-criterion scores and weighted total for one
// candidate. Criterion scores are on a 0-10 scale.
type VendorScore struct {
	VendorName      string             `json:"vendor_name"`
	CriterionScores map[string]float64 `json:"criterion_scores"`
	WeightedTotal   float64            `json:"weighted_total"`
	Strengths       []string           `json:"strengths,omitempty"`
	Weaknesses      []string           `json:"weaknesses,omitempty"`
	Reasoning       map[string]string  `json:"reasoning,omitempty"`
}

// WeightedTotal combines per-criterion scores with a weight table:
// total = sum(score_i * weight_i / 100). Criteria missing a score contribute
// nothing; given scores in [0,10] and weights summing to 100 the result is
// in [0,10].
func WeightedTotal(scores map[string]float64, weights WeightTable) float64 {
	total := 0.0
	for criterion, score := range scores {
		w, ok := weights[criterion]
		if !ok {
			continue
		}
		total += score * w.Current / 100.0
	}
	return total
}
