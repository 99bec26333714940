package synthesis

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/scoring"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

const maxDiscoveryEvidence = 150

// KeyDiscoveries converts the weight adjustments made during a run into the
// discovery records the report presents. Each entry names the finding, the
// evidence behind it and the weight impact it had.
func KeyDiscoveries(adjustments []types.WeightAdjustment) []types.Discovery {
	discoveries := make([]types.Discovery, 0, len(adjustments))
	for _, adj := range adjustments {
		direction := "Increased"
		if adj.Delta() < 0 {
			direction = "Decreased"
		}

		triggered := "None"
		if len(adj.FollowUpResearch) > 0 {
			triggered = strings.Join(adj.FollowUpResearch, ", ")
		}

		discoveries = append(discoveries, types.Discovery{
			Finding:  adj.Discovery,
			Evidence: truncate(adj.Evidence, maxDiscoveryEvidence),
			Impact: fmt.Sprintf("%s %s weight from %.1f%% to %.1f%%",
				direction, scoring.DisplayName(adj.Criterion), adj.Before, adj.After),
			Triggered: triggered,
		})
	}
	return discoveries
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
