package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/search"
	"github.com/jonathan/vendor-evaluator/internal/server/ratelimit"
)

// scriptedClient answers each phase's prompt with canned output, keyed off
// distinctive phrases in the prompt templates.
type scriptedClient struct{}

func (c *scriptedClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "Excellent and reliable with comprehensive documentation.", nil
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	switch {
	case strings.Contains(prompt, "Extract structured evaluation context"):
		return `{"category": "payment gateway", "tech_stack": ["Node.js"], "domain": "fintech",
			"region": "India", "scale": "10K transactions/month", "priorities": ["compliance"],
			"compliance": ["PCI-DSS"]}`, nil
	case strings.Contains(prompt, "identify relevant vendor candidates"):
		return `[
			{"name": "Stripe", "description": "Global payments platform", "website": "https://stripe.com"},
			{"name": "Razorpay", "description": "India-first payment gateway", "website": "https://razorpay.com"}
		]`, nil
	case strings.Contains(prompt, "identify hidden risks"):
		return `[]`, nil
	case strings.Contains(prompt, "Should any weights be adjusted"):
		return `[]`, nil
	case strings.Contains(prompt, "Assess "):
		return `{"strengths": ["Solid documentation"], "weaknesses": ["Fees at scale"],
			"reasoning": "Evidence shows a mature platform."}`, nil
	case strings.Contains(prompt, "Provide a final vendor recommendation"):
		return `{"recommended": "Razorpay",
			"rationale": "Best regional and compliance fit for an India fintech.",
			"trade_offs": ["Smaller global footprint"],
			"alternatives": [],
			"next_steps": ["Run a sandbox integration"]}`, nil
	}
	return `{}`, nil
}

func (c *scriptedClient) GetModel(_ llm.ModelTier) string { return "scripted" }
func (c *scriptedClient) Close() error                    { return nil }

type countingSearcher struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSearcher) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	return []search.Result{{
		Title:   query,
		Link:    "https://example.com/result?q=" + strconv.Itoa(n),
		Snippet: "Excellent and reliable payment processing.",
	}}, nil
}

func newTestServer(t *testing.T, rl *ratelimit.Config) *Server {
	t.Helper()
	s, err := New(Config{
		Client:    &scriptedClient{},
		Searcher:  &countingSearcher{},
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func TestNew_RequiresClientAndSearcher(t *testing.T) {
	_, err := New(Config{Searcher: &countingSearcher{}})
	assert.ErrorContains(t, err, "llm client is required")

	_, err = New(Config{Client: &scriptedClient{}})
	assert.ErrorContains(t, err, "searcher is required")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["persistence"])
}

func TestHandleEvaluate(t *testing.T) {
	s := newTestServer(t, nil)

	payload := `{"query": "best payment gateway for Indian fintech startup, PCI-DSS compliant"}`
	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		RecommendedVendor string   `json:"recommended_vendor"`
		Candidates        []string `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Razorpay", body.RecommendedVendor)
	assert.Equal(t, []string{"Stripe", "Razorpay"}, body.Candidates)
}

func TestHandleEvaluate_InvalidJSON(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestHandleEvaluate_QueryTooShort(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"query": "short"}`))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Query")
}

func TestHandleEvaluateStream(t *testing.T) {
	s := newTestServer(t, nil)

	payload := `{"query": "best payment gateway for Indian fintech startup, PCI-DSS compliant"}`
	req := httptest.NewRequest(http.MethodPost, "/evaluate/stream", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: step")
	assert.Contains(t, body, `"step":"context"`)
	assert.Contains(t, body, `"step":"recommendation"`)
	assert.Contains(t, body, "event: complete")
	assert.Contains(t, body, `"recommended":"Razorpay"`)
}

func TestRunsEndpoints_WithoutDatabase(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/runs"},
		{http.MethodGet, "/runs/6f1c9f9e-8d35-4f1a-b0c5-0a2f0e9d1c11"},
		{http.MethodGet, "/runs/6f1c9f9e-8d35-4f1a-b0c5-0a2f0e9d1c11/report"},
		{http.MethodDelete, "/runs/6f1c9f9e-8d35-4f1a-b0c5-0a2f0e9d1c11"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, rec.Body.String(), "persistence is not configured")
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &ratelimit.Config{Enabled: true, Limit: 2, Window: time.Minute, Burst: 2})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:4321"
	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/evaluate", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
