// Package search wraps Google Programmable Search for vendor research.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Result is a single web search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher executes web searches. Implementations must be safe for
// concurrent use; the research phase fans out across candidates.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// GoogleSearcher implements Searcher using the Custom Search JSON API.
type GoogleSearcher struct {
	svc        *customsearch.Service
	cx         string
	maxRetries int
}

// NewGoogleSearcher creates a searcher backed by a Programmable Search engine.
func NewGoogleSearcher(ctx context.Context, apiKey string, cx string) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine ID are required")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{
		svc:        svc,
		cx:         cx,
		maxRetries: 2,
	}, nil
}

// Search runs a single query and returns up to num results.
// Quota errors are retried with backoff; other failures are returned as-is.
func (s *GoogleSearcher) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if num <= 0 || num > 10 {
		num = 10
	}

	var resp *customsearch.Search
	var err error
	backoff := time.Second

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err = s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(query).Num(int64(num)).Do()
		if err == nil {
			break
		}
		if ctx.Err() != nil || !isQuotaError(err) {
			return nil, fmt.Errorf("search failed: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("search failed after retries: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "rateLimitExceeded") || strings.Contains(msg, "quotaExceeded")
}

// FormatResults renders results as numbered lines for inclusion in prompts.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "(no results)"
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.Link, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Dedup removes results with duplicate links, preserving order.
func Dedup(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Link == "" || seen[r.Link] {
			continue
		}
		seen[r.Link] = true
		out = append(out, r)
	}
	return out
}

// Domain extracts the bare host from a URL for site: scoped queries.
func Domain(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	if idx := strings.IndexByte(url, '/'); idx >= 0 {
		url = url[:idx]
	}
	return url
}
