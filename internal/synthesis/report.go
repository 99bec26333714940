package synthesis

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/scoring"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// RenderReport formats a recommendation as a markdown report. The section
// order is fixed: context, candidates, discoveries, weight adjustments,
// comparison matrix, hidden risks, recommendation, reproducibility.
func RenderReport(rec *types.Recommendation) string {
	var b strings.Builder

	b.WriteString("# Vendor Evaluation Report\n")

	b.WriteString("\n## Context\n")
	b.WriteString(rec.ContextSummary + "\n")

	b.WriteString("\n## Candidates Evaluated\n")
	if len(rec.Candidates) > 0 {
		b.WriteString(strings.Join(rec.Candidates, ", ") + "\n")
	} else {
		b.WriteString("None\n")
	}

	b.WriteString("\n## Key Discoveries That Shaped This Evaluation\n")
	if len(rec.KeyDiscoveries) == 0 {
		b.WriteString("No material discoveries; default weights were used.\n")
	}
	for i, d := range rec.KeyDiscoveries {
		fmt.Fprintf(&b, "\n### Discovery %d: %s\n", i+1, d.Finding)
		if d.Evidence != "" {
			fmt.Fprintf(&b, "**Evidence**: %s\n", d.Evidence)
		}
		fmt.Fprintf(&b, "**Impact**: %s\n", d.Impact)
		if d.Triggered != "" && d.Triggered != "None" {
			fmt.Fprintf(&b, "**Triggered**: %s\n", d.Triggered)
		}
	}

	b.WriteString("\n## Criteria Weight Adjustments\n")
	if len(rec.WeightAdjustments) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString("| Criterion | Initial | Final | Change | Reason |\n")
		b.WriteString("|-----------|---------|-------|--------|--------|\n")
		for _, adj := range rec.WeightAdjustments {
			fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %+.1f%% | %s |\n",
				scoring.DisplayName(adj.Criterion), adj.Before, adj.After, adj.Delta(),
				truncate(adj.Discovery, 40))
		}
	}

	b.WriteString("\n## Comparison Matrix\n")
	b.WriteString(rec.ComparisonMatrix + "\n")

	b.WriteString("\n## Hidden Risks Detected\n")
	if len(rec.HiddenRisks) == 0 {
		b.WriteString("None detected\n")
	}
	for _, risk := range rec.HiddenRisks {
		fmt.Fprintf(&b, "- [%s] **%s**: %s\n", risk.Severity, risk.Vendor, truncate(risk.Description, 100))
	}

	b.WriteString("\n## Recommendation\n")
	fmt.Fprintf(&b, "\n### Recommended: **%s**\n", rec.RecommendedVendor)
	fmt.Fprintf(&b, "\n**Why:**\n%s\n", rec.Rationale)
	if len(rec.TradeOffs) > 0 {
		b.WriteString("\n**Trade-offs:**\n")
		for _, t := range rec.TradeOffs {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	if len(rec.Alternatives) > 0 {
		b.WriteString("\n**Alternatives:**\n")
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(&b, "- %s\n", alt.Text)
		}
	}
	if len(rec.NextSteps) > 0 {
		b.WriteString("\n**Next Steps:**\n")
		for i, step := range rec.NextSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	b.WriteString("\n## Reproducibility\n")
	b.WriteString("Weighted scores are computed as sum(score x weight / 100) over the final weight table, which is normalized to 100%. ")
	b.WriteString("Evidence comes from live web research, so candidate lists and scores can shift as vendor pages and the search index change.\n")

	return b.String()
}
