package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// knownCategories are matched in order; the first hit wins.
var knownCategories = []string{
	"payment gateway",
	"authentication",
	"crm",
	"cdn",
	"database",
	"analytics",
	"email",
	"sms",
	"monitoring",
	"logging",
	"storage",
}

var knownDomains = []string{"healthcare", "fintech", "e-commerce", "saas", "education"}

var knownRegions = []string{"india", "indian", "us", "usa", "europe", "asia", "global"}

var knownCompliance = []string{"hipaa", "pci-dss", "pci", "gdpr", "soc2", "rbi"}

var knownPriorities = []string{"compliance", "cost", "ease of use", "scalability", "performance", "support"}

var transactionScale = regexp.MustCompile(`(\d+[kKmM]?)\s*transactions?`)

// FallbackParse builds an EvaluationContext from keyword heuristics.
// It is used when LLM extraction is unavailable or returns garbage.
func FallbackParse(rawQuery string) *types.EvaluationContext {
	queryLower := strings.ToLower(rawQuery)

	category := "software vendor"
	for _, keyword := range knownCategories {
		if strings.Contains(queryLower, keyword) {
			category = keyword
			break
		}
	}

	region := "Global"
	for _, r := range knownRegions {
		if strings.Contains(queryLower, r) {
			region = normalizeRegion(r)
			break
		}
	}

	scale := ""
	switch {
	case strings.Contains(queryLower, "startup"):
		scale = "startup"
	case strings.Contains(queryLower, "enterprise"):
		scale = "enterprise"
	case strings.Contains(queryLower, "transaction"):
		if m := transactionScale.FindStringSubmatch(queryLower); m != nil {
			scale = m[1] + " transactions/month"
		}
	}

	domain := "general"
	for _, d := range knownDomains {
		if strings.Contains(queryLower, d) {
			domain = d
			break
		}
	}

	var compliance []string
	for _, c := range knownCompliance {
		if !strings.Contains(queryLower, c) {
			continue
		}
		// "pci" is subsumed by "pci-dss"
		if c == "pci" && len(compliance) > 0 && compliance[len(compliance)-1] == "PCI-DSS" {
			continue
		}
		compliance = append(compliance, strings.ToUpper(c))
	}

	var priorities []string
	for _, p := range knownPriorities {
		if strings.Contains(queryLower, p) {
			priorities = append(priorities, p)
		}
	}

	evalCtx := &types.EvaluationContext{
		Category:   category,
		Domain:     domain,
		Region:     region,
		Scale:      scale,
		Priorities: priorities,
		Compliance: compliance,
		RawQuery:   rawQuery,
	}
	evalCtx.Normalize()
	return evalCtx
}

func normalizeRegion(r string) string {
	switch r {
	case "india", "indian":
		return "India"
	case "us", "usa":
		return "US"
	case "europe":
		return "Europe"
	case "asia":
		return "Asia"
	default:
		return "Global"
	}
}
