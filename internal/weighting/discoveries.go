package weighting

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// Discovery is a research finding significant enough to consider reshaping
// the rubric.
type Discovery struct {
	Type        string
	Vendor      string
	Description string
	Evidence    string
	Criterion   string
}

// Discovery types.
const (
	DiscoveryUptimeIssue    = "uptime_issue"
	DiscoveryMissingSDK     = "missing_sdk"
	DiscoveryPricingConcern = "pricing_concern"
	DiscoveryComplianceGap  = "compliance_gap"
	hiddenRiskPrefix        = "hidden_risk_"
)

var (
	uptimeIssueKeywords    = []string{"outage", "downtime", "incident", "unavailable"}
	pricingConcernKeywords = []string{"expensive", "jump", "hidden fee", "trap"}
	complianceGapKeywords  = []string{"not certified", "lacking", "missing"}
)

// ExtractDiscoveries scans research findings for signals that should trigger
// weight adjustments.
func ExtractDiscoveries(findings []*types.ResearchFindings, evalCtx *types.EvaluationContext) []Discovery {
	var discoveries []Discovery

	for _, f := range findings {
		vendor := f.VendorName

		uptime := evidenceText(f, types.DimUptimeReliability)
		if indicatesIssue(uptime, uptimeIssueKeywords) {
			discoveries = append(discoveries, Discovery{
				Type:        DiscoveryUptimeIssue,
				Vendor:      vendor,
				Description: fmt.Sprintf("%s has recent uptime issues", vendor),
				Evidence:    truncate(uptime, 200),
				Criterion:   types.DimUptimeReliability,
			})
		}

		if missing := missingSDKs(f, evalCtx.TechStack); len(missing) > 0 {
			discoveries = append(discoveries, Discovery{
				Type:        DiscoveryMissingSDK,
				Vendor:      vendor,
				Description: fmt.Sprintf("%s missing SDK for %s", vendor, strings.Join(missing, ", ")),
				Evidence:    fmt.Sprintf("No official support found for %s", strings.Join(missing, ", ")),
				Criterion:   types.DimIntegrationComplexity,
			})
		}

		pricing := evidenceText(f, types.DimPricing)
		if indicatesIssue(pricing, pricingConcernKeywords) {
			discoveries = append(discoveries, Discovery{
				Type:        DiscoveryPricingConcern,
				Vendor:      vendor,
				Description: fmt.Sprintf("%s has pricing concerns", vendor),
				Evidence:    truncate(pricing, 200),
				Criterion:   types.DimPricing,
			})
		}

		compliance := evidenceText(f, types.DimCompliance)
		if len(evalCtx.Compliance) > 0 && indicatesIssue(compliance, complianceGapKeywords) {
			discoveries = append(discoveries, Discovery{
				Type:        DiscoveryComplianceGap,
				Vendor:      vendor,
				Description: fmt.Sprintf("%s may have compliance gaps", vendor),
				Evidence:    truncate(compliance, 200),
				Criterion:   types.DimCompliance,
			})
		}

		for _, risk := range f.HiddenRisks {
			discoveries = append(discoveries, Discovery{
				Type:        hiddenRiskPrefix + risk.Type,
				Vendor:      vendor,
				Description: fmt.Sprintf("%s: %s", vendor, truncate(risk.Description, 100)),
				Evidence:    risk.Evidence,
				Criterion:   riskCriterion(risk.Type),
			})
		}
	}

	return discoveries
}

// riskCriterion maps a hidden risk type to the criterion it should inflate.
func riskCriterion(riskType string) string {
	switch riskType {
	case "maintainer":
		return types.DimVendorHealth
	case "pricing_trap":
		return types.DimPricing
	case "lockin":
		return types.DimIntegrationComplexity
	case "compliance_drift":
		return types.DimCompliance
	case "deprecation":
		return types.DimIntegrationComplexity
	default:
		return types.DimVendorHealth
	}
}

func missingSDKs(f *types.ResearchFindings, techStack []string) []string {
	sdk := strings.ToLower(evidenceText(f, types.DimSDKQuality))
	if sdk == "" {
		return nil
	}
	var missing []string
	for _, tech := range techStack {
		if !strings.Contains(sdk, strings.ToLower(tech)) {
			missing = append(missing, tech)
		}
	}
	return missing
}

func evidenceText(f *types.ResearchFindings, dimension string) string {
	return strings.Join(f.EvidenceFor(dimension), " ")
}

func indicatesIssue(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
