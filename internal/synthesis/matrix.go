package synthesis

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/scoring"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// maxMatrixCriteria caps the comparison matrix at the highest-weighted
// criteria so the table stays readable.
const maxMatrixCriteria = 8

// ComparisonMatrix renders a markdown table of per-criterion scores for every
// scored vendor, rows ordered by weight. Criteria below one percent are
// omitted.
func ComparisonMatrix(scores []types.VendorScore, weights types.WeightTable) string {
	if len(scores) == 0 {
		return "(no vendors scored)"
	}

	var b strings.Builder

	b.WriteString("| Criterion (Weight) |")
	for _, v := range scores {
		fmt.Fprintf(&b, " %s |", v.VendorName)
	}
	b.WriteString("\n|" + strings.Repeat("---|", len(scores)+1) + "\n")

	rows := 0
	for _, w := range weights.Sorted() {
		if rows == maxMatrixCriteria {
			break
		}
		if w.Current < 1.0 {
			continue
		}
		fmt.Fprintf(&b, "| %s (%.1f%%) |", scoring.DisplayName(w.Name), w.Current)
		for _, v := range scores {
			fmt.Fprintf(&b, " %.1f/10 |", v.CriterionScores[w.Name])
		}
		b.WriteString("\n")
		rows++
	}

	b.WriteString("| **Weighted Score** |")
	for _, v := range scores {
		fmt.Fprintf(&b, " **%.1f/10** |", v.WeightedTotal)
	}

	return b.String()
}
