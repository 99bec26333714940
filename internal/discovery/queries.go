package discovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

// GenerateSearchQueries builds targeted web queries from the evaluation
// context. Queries cover the general market plus stack, domain, region and
// compliance angles so discovery is not biased toward the big names.
func GenerateSearchQueries(evalCtx *types.EvaluationContext) []string {
	category := evalCtx.Category
	year := time.Now().Year()

	queries := []string{
		fmt.Sprintf("best %s vendors %d", category, year),
		fmt.Sprintf("%s solutions comparison", category),
	}

	if len(evalCtx.TechStack) > 0 {
		techs := evalCtx.TechStack
		if len(techs) > 2 {
			techs = techs[:2]
		}
		queries = append(queries, fmt.Sprintf("%s for %s", category, strings.Join(techs, " ")))
	}

	if evalCtx.Domain != "" && evalCtx.Domain != "general" {
		queries = append(queries, fmt.Sprintf("%s for %s", category, evalCtx.Domain))
	}

	if evalCtx.Region != "" && !strings.EqualFold(evalCtx.Region, "global") {
		queries = append(queries, fmt.Sprintf("%s %s", category, evalCtx.Region))
	}

	if len(evalCtx.Compliance) > 0 {
		queries = append(queries, fmt.Sprintf("%s %s compliant", category, evalCtx.Compliance[0]))
	}

	queries = append(queries,
		fmt.Sprintf("%s open source alternatives", category),
		fmt.Sprintf("%s startups %d", category, year),
	)

	return queries
}
