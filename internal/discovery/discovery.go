// Package discovery finds vendor candidates for an evaluation context by
// fanning out web searches and using an LLM to select the shortlist.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/prompts"
	"github.com/jonathan/vendor-evaluator/internal/schemas"
	"github.com/jonathan/vendor-evaluator/internal/search"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// ErrNoCandidates is returned when search and selection produce an empty
// shortlist. The pipeline treats it as terminal.
var ErrNoCandidates = errors.New("no vendor candidates found")

// Limits on the shortlist size. A sparse category may legitimately yield
// fewer candidates than the prompt asks for, so there is no lower bound.
const (
	MaxCandidates = 5

	resultsPerQuery = 5
	maxPromptedHits = 30
)

// Identifier discovers vendor candidates.
type Identifier struct {
	llm      llm.Client
	searcher search.Searcher
}

// NewIdentifier creates an Identifier.
func NewIdentifier(client llm.Client, searcher search.Searcher) *Identifier {
	return &Identifier{
		llm:      client,
		searcher: searcher,
	}
}

// Identify returns the candidate shortlist for the context. Individual
// search queries may fail without aborting discovery; only an empty final
// shortlist is an error.
func (id *Identifier) Identify(ctx context.Context, evalCtx *types.EvaluationContext) ([]types.Candidate, error) {
	queries := GenerateSearchQueries(evalCtx)

	var hits []search.Result
	for _, query := range queries {
		results, err := id.searcher.Search(ctx, query, resultsPerQuery)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		hits = append(hits, results...)
	}
	hits = search.Dedup(hits)

	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: all %d discovery searches failed or returned nothing", ErrNoCandidates, len(queries))
	}
	if len(hits) > maxPromptedHits {
		hits = hits[:maxPromptedHits]
	}

	candidates, err := id.selectCandidates(ctx, evalCtx, hits)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	for i := range candidates {
		candidates[i].Category = evalCtx.Category
		if candidates[i].DiscoverySource == "" {
			candidates[i].DiscoverySource = "web search"
		}
	}
	return candidates, nil
}

func (id *Identifier) selectCandidates(ctx context.Context, evalCtx *types.EvaluationContext, hits []search.Result) ([]types.Candidate, error) {
	template := prompts.MustGet("discovery.json", "select-candidates")
	prompt := prompts.Format(template, map[string]string{
		"Category":      evalCtx.Category,
		"Context":       evalCtx.Summary(),
		"SearchResults": search.FormatResults(hits),
	})

	responseText, err := id.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("candidate selection failed: %w", err)
	}

	if err := schemas.Validate(schemas.Candidates, responseText); err != nil {
		return nil, fmt.Errorf("candidate selection returned invalid JSON: %w", err)
	}

	var candidates []types.Candidate
	if err := json.Unmarshal([]byte(responseText), &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}

	// Drop entries the model invented without names and dedupe by name
	seen := make(map[string]bool, len(candidates))
	valid := candidates[:0]
	for _, c := range candidates {
		if c.Validate() != nil || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		valid = append(valid, c)
	}
	return valid, nil
}
