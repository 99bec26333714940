// Package research investigates candidates across a fixed set of evaluation
// dimensions, condensing web evidence with an LLM and flagging hidden risks.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/vendor-evaluator/internal/fetch"
	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/prompts"
	"github.com/jonathan/vendor-evaluator/internal/schemas"
	"github.com/jonathan/vendor-evaluator/internal/search"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// ErrResearchFailed is returned when research produced nothing for any
// candidate. Individual candidate failures are tolerated.
var ErrResearchFailed = errors.New("research failed for all candidates")

const (
	resultsPerDimension = 5
	sourcesPerDimension = 3
	maxFetchedPageChars = 800
)

// Options configures a Researcher.
type Options struct {
	// MaxParallel bounds concurrent candidate research. Zero means 3.
	MaxParallel int
	// FetchPages enables fetching the candidate's pricing page directly in
	// addition to search snippets.
	FetchPages bool
}

// Researcher runs multi-dimension research over candidates.
type Researcher struct {
	llm      llm.Client
	searcher search.Searcher
	opts     Options
}

// NewResearcher creates a Researcher.
func NewResearcher(client llm.Client, searcher search.Searcher, opts Options) *Researcher {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 3
	}
	return &Researcher{
		llm:      client,
		searcher: searcher,
		opts:     opts,
	}
}

// ResearchCandidates researches all candidates concurrently. A candidate
// whose research fails completely is dropped with its error recorded; the
// call fails only when every candidate failed.
func (r *Researcher) ResearchCandidates(ctx context.Context, candidates []types.Candidate, evalCtx *types.EvaluationContext) ([]*types.ResearchFindings, []error, error) {
	findings := make([]*types.ResearchFindings, len(candidates))
	failures := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxParallel)

	for i := range candidates {
		g.Go(func() error {
			f, err := r.ResearchCandidate(gctx, &candidates[i], evalCtx)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				failures[i] = fmt.Errorf("research failed for %s: %w", candidates[i].Name, err)
				return nil
			}
			findings[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var ok []*types.ResearchFindings
	var errs []error
	for i := range candidates {
		if findings[i] != nil {
			ok = append(ok, findings[i])
		} else if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}
	if len(ok) == 0 {
		return nil, errs, fmt.Errorf("%w: %d candidates", ErrResearchFailed, len(candidates))
	}
	return ok, errs, nil
}

// ResearchCandidate investigates a single candidate across all dimensions.
// Dimension-level failures are skipped; the candidate fails only when no
// dimension produced evidence.
func (r *Researcher) ResearchCandidate(ctx context.Context, candidate *types.Candidate, evalCtx *types.EvaluationContext) (*types.ResearchFindings, error) {
	findings := types.NewResearchFindings(candidate.Name)

	for _, dim := range types.Dimensions() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		query := DimensionQuery(candidate, dim, evalCtx)
		results, err := r.searcher.Search(ctx, query, resultsPerDimension)
		if err != nil || len(results) == 0 {
			continue
		}
		results = search.Dedup(results)

		for i, res := range results {
			if i >= sourcesPerDimension {
				break
			}
			findings.Sources = append(findings.Sources, res.Link)
		}

		analysis, err := r.analyzeDimension(ctx, candidate, dim, evalCtx, results)
		if err != nil {
			continue
		}
		findings.AddEvidence(dim, analysis)
	}

	if r.opts.FetchPages && candidate.Website != "" {
		for _, page := range vendorPages() {
			url := vendorPageURL(candidate.Website, page.path)
			text, err := fetch.Text(ctx, url, page.selectors, nil)
			if err != nil || text == "" {
				continue
			}
			findings.AddEvidence(page.dimension, page.label+" excerpt: "+truncate(text, maxFetchedPageChars))
			findings.Sources = append(findings.Sources, url)
		}
	}

	if len(findings.Evidence) == 0 {
		return nil, fmt.Errorf("no evidence gathered across %d dimensions", len(types.Dimensions()))
	}

	risks, err := r.detectHiddenRisks(ctx, candidate, findings, evalCtx)
	if err != nil {
		// Keyword scan still catches the obvious ones
		risks = DetectRiskSignals(findings)
	}
	findings.HiddenRisks = risks

	return findings, nil
}

func (r *Researcher) analyzeDimension(ctx context.Context, candidate *types.Candidate, dimension string, evalCtx *types.EvaluationContext, results []search.Result) (string, error) {
	template := prompts.MustGet("research.json", "analyze-dimension")
	prompt := prompts.Format(template, map[string]string{
		"Dimension":     dimension,
		"Vendor":        candidate.Name,
		"Context":       evalCtx.Summary() + ". " + dimensionFocus(dimension, evalCtx),
		"SearchResults": search.FormatResults(results),
	})

	analysis, err := r.llm.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", err
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return "", fmt.Errorf("empty analysis for %s/%s", candidate.Name, dimension)
	}
	return analysis, nil
}

func (r *Researcher) detectHiddenRisks(ctx context.Context, candidate *types.Candidate, findings *types.ResearchFindings, evalCtx *types.EvaluationContext) ([]types.HiddenRisk, error) {
	template := prompts.MustGet("research.json", "detect-hidden-risks")
	prompt := prompts.Format(template, map[string]string{
		"Vendor":   candidate.Name,
		"Context":  evalCtx.Summary(),
		"Evidence": FormatEvidence(findings),
	})

	responseText, err := r.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.HiddenRisks, responseText); err != nil {
		return nil, err
	}

	var risks []types.HiddenRisk
	if err := json.Unmarshal([]byte(responseText), &risks); err != nil {
		return nil, err
	}

	return mergeRisks(risks, DetectRiskSignals(findings)), nil
}

// mergeRisks combines LLM-detected and keyword-detected risks, keeping the
// LLM version when both flag the same type.
func mergeRisks(primary, secondary []types.HiddenRisk) []types.HiddenRisk {
	seen := make(map[string]bool, len(primary))
	out := make([]types.HiddenRisk, 0, len(primary)+len(secondary))
	for _, risk := range primary {
		seen[risk.Type] = true
		out = append(out, risk)
	}
	for _, risk := range secondary {
		if !seen[risk.Type] {
			seen[risk.Type] = true
			out = append(out, risk)
		}
	}
	return out
}

// FormatEvidence renders findings as dimension-grouped bullets for prompts
// and reports.
func FormatEvidence(findings *types.ResearchFindings) string {
	var b strings.Builder
	for _, dim := range types.Dimensions() {
		bullets := findings.EvidenceFor(dim)
		if len(bullets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", dim)
		for _, bullet := range bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}
	if b.Len() == 0 {
		return "(no evidence)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// vendorPage is a well-known page on a vendor site fetched directly for
// evidence when FetchPages is enabled.
type vendorPage struct {
	path      string
	selectors []string
	dimension string
	label     string
}

func vendorPages() []vendorPage {
	return []vendorPage{
		{"/pricing", fetch.PricingPageSelectors(), types.DimPricing, "Pricing page"},
		{"/status", fetch.StatusPageSelectors(), types.DimUptimeReliability, "Status page"},
		{"/docs", fetch.DocsPageSelectors(), types.DimAPIQuality, "Docs page"},
	}
}

func vendorPageURL(website, path string) string {
	return strings.TrimRight(website, "/") + path
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
