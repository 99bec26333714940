package research

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// DimensionQuery builds the web search query for one research dimension.
// Each dimension gets its own angle so the evidence does not collapse into
// generic marketing copy.
func DimensionQuery(candidate *types.Candidate, dimension string, evalCtx *types.EvaluationContext) string {
	name := candidate.Name

	switch dimension {
	case types.DimSDKQuality:
		if candidate.GitHubURL != "" {
			return fmt.Sprintf("%s stars issues pull requests", candidate.GitHubURL)
		}
		return fmt.Sprintf("%s github repository sdk", name)
	case types.DimAPIQuality:
		return fmt.Sprintf("%s API documentation quality review", name)
	case types.DimIntegrationComplexity:
		tech := ""
		if len(evalCtx.TechStack) > 0 {
			techs := evalCtx.TechStack
			if len(techs) > 2 {
				techs = techs[:2]
			}
			tech = " " + strings.Join(techs, " ")
		}
		return fmt.Sprintf("%s integration%s difficulty time", name, tech)
	case types.DimPerformance:
		return fmt.Sprintf("%s performance benchmark latency throughput", name)
	case types.DimUptimeReliability:
		return fmt.Sprintf("%s status page uptime history incidents outages", name)
	case types.DimSupportQuality:
		return fmt.Sprintf("%s customer support quality response time reviews", name)
	case types.DimScalability:
		return fmt.Sprintf("%s scalability limits %s enterprise", name, evalCtx.Scale)
	case types.DimPricing:
		return fmt.Sprintf("%s pricing costs tiers hidden fees", name)
	case types.DimVendorHealth:
		return fmt.Sprintf("%s company funding employees growth news", name)
	case types.DimCompliance:
		comp := "compliance"
		if len(evalCtx.Compliance) > 0 {
			comp = strings.Join(evalCtx.Compliance, " ")
		}
		return fmt.Sprintf("%s %s certification audit", name, comp)
	default:
		return fmt.Sprintf("%s %s", name, dimension)
	}
}

// dimensionFocus is the analysis hint passed to the model for a dimension.
func dimensionFocus(dimension string, evalCtx *types.EvaluationContext) string {
	switch dimension {
	case types.DimSDKQuality:
		return fmt.Sprintf("Tech stack requirements: %s", strings.Join(evalCtx.TechStack, ", "))
	case types.DimAPIQuality:
		return "Consider: documentation, ease of use, community feedback"
	case types.DimIntegrationComplexity:
		return fmt.Sprintf("Tech stack: %s", strings.Join(evalCtx.TechStack, ", "))
	case types.DimPerformance:
		return "Look for: latency, throughput, reliability metrics"
	case types.DimUptimeReliability:
		return "Focus on: recent incidents, frequency, duration, SLA"
	case types.DimSupportQuality:
		return "Consider: response time, support channels, user reviews"
	case types.DimScalability:
		return fmt.Sprintf("Target scale: %s", evalCtx.Scale)
	case types.DimPricing:
		return "Look for: base cost, usage tiers, hidden fees, cost at scale"
	case types.DimVendorHealth:
		return "Consider: funding, team size, growth trajectory, recent news"
	case types.DimCompliance:
		return fmt.Sprintf("Required: %s", strings.Join(evalCtx.Compliance, ", "))
	default:
		return ""
	}
}
