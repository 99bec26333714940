// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintContext outputs a human-readable summary of the parsed evaluation context.
func (p *Printer) PrintContext(evalCtx *types.EvaluationContext) {
	if evalCtx == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Category: %s\n", evalCtx.Category))
	sb.WriteString(fmt.Sprintf("Domain:   %s\n", evalCtx.Domain))
	sb.WriteString(fmt.Sprintf("Region:   %s\n", evalCtx.Region))
	sb.WriteString(fmt.Sprintf("Scale:    %s\n", evalCtx.Scale))

	if len(evalCtx.TechStack) > 0 {
		sb.WriteString(fmt.Sprintf("Stack:    %s\n", strings.Join(evalCtx.TechStack, ", ")))
	}
	if len(evalCtx.Priorities) > 0 {
		sb.WriteString(fmt.Sprintf("Wants:    %s\n", strings.Join(evalCtx.Priorities, ", ")))
	}
	if len(evalCtx.Compliance) > 0 {
		sb.WriteString(fmt.Sprintf("Needs:    %s\n", strings.Join(evalCtx.Compliance, ", ")))
	}

	p.printBox("EVALUATION CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the candidate shortlist with discovery rationale.
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shortlisted %d candidates:\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Name))
		if c.Website != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", c.Website))
		}
		if c.Rationale != "" {
			rationale := c.Rationale
			if len(rationale) > 48 {
				rationale = rationale[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", rationale))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(candidates)-maxItemsToShow))
	}

	p.printBox("CANDIDATE SHORTLIST", sb.String())
}

// PrintFindings outputs a per-candidate summary of collected evidence.
func (p *Printer) PrintFindings(findings []*types.ResearchFindings) {
	if len(findings) == 0 {
		return
	}

	var sb strings.Builder

	for i, f := range findings {
		bullets := 0
		for _, ev := range f.Evidence {
			bullets += len(ev)
		}
		sb.WriteString(fmt.Sprintf("%s\n", f.VendorName))
		sb.WriteString(fmt.Sprintf("    Evidence: %d bullets across %d dimensions\n", bullets, len(f.Evidence)))
		if len(f.HiddenRisks) > 0 {
			sb.WriteString(fmt.Sprintf("    Risks:    %d detected\n", len(f.HiddenRisks)))
			count := min(len(f.HiddenRisks), 2)
			for j := 0; j < count; j++ {
				risk := f.HiddenRisks[j]
				desc := risk.Description
				if len(desc) > 44 {
					desc = desc[:41] + "..."
				}
				sb.WriteString(fmt.Sprintf("      [%s] %s\n", risk.Severity, desc))
			}
		}
		if i < len(findings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RESEARCH FINDINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWeights outputs the weight table with the change from its initial state.
func (p *Printer) PrintWeights(weights types.WeightTable) {
	if len(weights) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range weights.Sorted() {
		sb.WriteString(fmt.Sprintf("%-24s %5.1f%%", w.Name, w.Current))
		if delta := w.Current - w.Initial; delta > 0.05 || delta < -0.05 {
			sb.WriteString(fmt.Sprintf("  (%+.1f)", delta))
		}
		sb.WriteString("\n")
	}

	p.printBox("CRITERION WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScores outputs the ranked vendor scores.
func (p *Printer) PrintScores(scores []types.VendorScore) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(scores), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := scores[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, v.VendorName))
		sb.WriteString(fmt.Sprintf("    Weighted: %.1f/10\n", v.WeightedTotal))
		if len(v.Strengths) > 0 {
			strength := v.Strengths[0]
			if len(strength) > 44 {
				strength = strength[:41] + "..."
			}
			sb.WriteString(fmt.Sprintf("    + %s\n", strength))
		}
		if len(v.Weaknesses) > 0 {
			weakness := v.Weaknesses[0]
			if len(weakness) > 44 {
				weakness = weakness[:41] + "..."
			}
			sb.WriteString(fmt.Sprintf("    - %s\n", weakness))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VENDOR SCORES", sb.String())
}

// PrintRecommendation outputs the final recommendation summary.
func (p *Printer) PrintRecommendation(rec *types.Recommendation) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommended: %s\n", rec.RecommendedVendor))
	if rec.Rationale != "" {
		sb.WriteString("\n")
		rationale := rec.Rationale
		if len(rationale) > 150 {
			rationale = rationale[:147] + "..."
		}
		sb.WriteString(rationale + "\n")
	}
	if len(rec.Alternatives) > 0 {
		sb.WriteString("\nAlternatives:\n")
		count := min(len(rec.Alternatives), 3)
		for i := 0; i < count; i++ {
			text := rec.Alternatives[i].Text
			if len(text) > 48 {
				text = text[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", text))
		}
	}

	p.printBox("RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}
