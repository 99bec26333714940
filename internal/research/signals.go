package research

import (
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// riskSignal maps evidence keywords to a hidden risk type.
type riskSignal struct {
	riskType    string
	severity    string
	description string
	keywords    []string
}

var riskSignals = []riskSignal{
	{
		riskType:    "maintainer",
		severity:    "medium",
		description: "Maintainer health concerns reported for the project",
		keywords:    []string{"single maintainer", "unmaintained", "abandoned", "no longer maintained", "maintainer stepped down"},
	},
	{
		riskType:    "pricing_trap",
		severity:    "medium",
		description: "Pricing appears to rise sharply at scale",
		keywords:    []string{"expensive at scale", "hidden fee", "hidden fees", "price jump", "contact sales", "surprise bill"},
	},
	{
		riskType:    "acquisition",
		severity:    "medium",
		description: "Recent acquisition may disrupt product direction",
		keywords:    []string{"acquired by", "acquisition", "merger with"},
	},
	{
		riskType:    "compliance_drift",
		severity:    "high",
		description: "Compliance certification may have lapsed",
		keywords:    []string{"certification expired", "lapsed certification", "failed audit", "no longer certified"},
	},
	{
		riskType:    "deprecation",
		severity:    "medium",
		description: "Core technology is deprecated or being sunset",
		keywords:    []string{"deprecated", "end of life", "sunset", "breaking migration"},
	},
	{
		riskType:    "lockin",
		severity:    "low",
		description: "Migration away from this vendor is reported to be difficult",
		keywords:    []string{"lock-in", "lockin", "difficult to migrate", "proprietary format", "no data export"},
	},
}

// DetectRiskSignals scans condensed evidence for risk keywords. It is the
// deterministic fallback when LLM risk detection is unavailable, and also
// backfills risk types the model missed.
func DetectRiskSignals(findings *types.ResearchFindings) []types.HiddenRisk {
	var all []string
	for _, bullets := range findings.Evidence {
		all = append(all, bullets...)
	}
	corpus := strings.ToLower(strings.Join(all, "\n"))

	var risks []types.HiddenRisk
	for _, sig := range riskSignals {
		for _, kw := range sig.keywords {
			if strings.Contains(corpus, kw) {
				risks = append(risks, types.HiddenRisk{
					Type:        sig.riskType,
					Severity:    sig.severity,
					Description: sig.description,
					Evidence:    "keyword match: " + kw,
				})
				break
			}
		}
	}
	return risks
}
