// Package weighting owns the evaluation rubric: initial criterion weights
// derived from context, and dynamic adjustment driven by research
// discoveries. Structural rules (bounds, materiality, normalization) are
// enforced mechanically here regardless of what any model proposed.
package weighting

import (
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// Weight bounds and the materiality threshold, in percentage points.
const (
	MinWeight = 5.0
	MaxWeight = 40.0

	// MaterialityThreshold is the minimum change an adjustment must make to
	// be applied. Smaller nudges are noise, not signal.
	MaterialityThreshold = 5.0
)

// defaultWeights is the balanced baseline rubric. Compliance starts at zero
// and is funded only when the context actually has compliance requirements.
var defaultWeights = map[string]float64{
	types.DimSDKQuality:            15.0,
	types.DimAPIQuality:            10.0,
	types.DimIntegrationComplexity: 15.0,
	types.DimPerformance:           10.0,
	types.DimUptimeReliability:     15.0,
	types.DimSupportQuality:        10.0,
	types.DimScalability:           10.0,
	types.DimPricing:               10.0,
	types.DimVendorHealth:          5.0,
	types.DimCompliance:            0.0,
}

// InitialWeights builds the starting weight table for an evaluation context.
// The returned table always sums to 100.
func InitialWeights(evalCtx *types.EvaluationContext) types.WeightTable {
	weights := make(map[string]float64, len(defaultWeights))
	for name, w := range defaultWeights {
		weights[name] = w
	}

	// Fund compliance from the other criteria when requirements exist
	if len(evalCtx.Compliance) > 0 {
		weights[types.DimCompliance] = 15.0
		totalOther := 0.0
		for name, w := range weights {
			if name != types.DimCompliance {
				totalOther += w
			}
		}
		factor := (100.0 - weights[types.DimCompliance]) / totalOther
		for name := range weights {
			if name != types.DimCompliance {
				weights[name] *= factor
			}
		}
	}

	// Security-sensitive contexts care more about compliance and stability
	if prioritizesSecurity(evalCtx) {
		weights[types.DimCompliance] += 5.0
		weights[types.DimUptimeReliability] += 5.0
		weights[types.DimVendorHealth] += 3.0
	}

	table := make(types.WeightTable, len(weights))
	for name, w := range weights {
		table[name] = &types.CriterionWeight{
			Name:    name,
			Initial: w,
			Current: w,
		}
	}
	table.Normalize()

	// Initial must mirror the normalized starting point
	for _, w := range table {
		w.Initial = w.Current
	}
	return table
}

func prioritizesSecurity(evalCtx *types.EvaluationContext) bool {
	for _, p := range evalCtx.Priorities {
		if strings.Contains(strings.ToLower(p), "security") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(evalCtx.Domain), "fintech")
}

// clampWeight bounds a weight to [MinWeight, MaxWeight].
func clampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
