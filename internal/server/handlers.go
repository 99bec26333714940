package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/vendor-evaluator/internal/db"
	"github.com/jonathan/vendor-evaluator/internal/pipeline"
)

// EvaluateRequest represents an incoming evaluation request
type EvaluateRequest struct {
	Query       string `json:"query" validate:"required,min=10"`
	MaxParallel int    `json:"max_parallel" validate:"omitempty,min=1,max=10"`
	FetchPages  bool   `json:"fetch_pages"`
	Verbose     bool   `json:"verbose"`
}

// decodeEvaluateRequest parses and validates the request body
func (s *Server) decodeEvaluateRequest(r *http.Request) (*EvaluateRequest, error) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}

	if err := s.validate.Struct(&req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return nil, &ErrValidation{
				Field:   invalid[0].Field(),
				Message: "failed " + invalid[0].Tag() + " validation",
			}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	return &req, nil
}

// runOptions builds pipeline options from a validated request
func (s *Server) runOptions(req *EvaluateRequest) pipeline.RunOptions {
	maxParallel := req.MaxParallel
	if maxParallel == 0 {
		maxParallel = s.maxParallel
	}
	return pipeline.RunOptions{
		Query:       req.Query,
		Client:      s.client,
		Searcher:    s.searcher,
		MaxParallel: maxParallel,
		FetchPages:  req.FetchPages || s.fetchPages,
		Verbose:     req.Verbose,
		DatabaseURL: s.databaseURL,
	}
}

// handleEvaluate runs a full evaluation synchronously and returns the
// recommendation as JSON. Long-running; clients that need progress should
// use /evaluate/stream instead.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeEvaluateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := pipeline.RunPipeline(r.Context(), s.runOptions(req))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

// handleEvaluateStream runs an evaluation and streams progress as SSE events.
// Each pipeline step emits a "step" event; the final recommendation arrives
// in a "complete" event.
func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeEvaluateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := s.runOptions(req)
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		sse.WriteEvent("step", event) //nolint:errcheck
	}

	rec, err := pipeline.RunPipeline(r.Context(), opts)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(rec.RecommendedVendor)
}

// handleListRuns returns recent evaluation runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	filters := db.RunFilters{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		filters.Limit = n
	}

	runs, err := s.db.ListRuns(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// parseRunID extracts and validates the run ID path parameter
func (s *Server) parseRunID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid run id"}
	}
	return id, nil
}

// handleGetRun returns a single evaluation run by ID
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	runID, err := s.parseRunID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetRunReport returns the rendered markdown report for a run
func (s *Server) handleGetRunReport(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	runID, err := s.parseRunID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	report, err := s.db.GetTextArtifact(r.Context(), runID, db.StepReport)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == "" {
		s.errorResponse(w, http.StatusNotFound, "report not found")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report)) //nolint:errcheck
}

// handleDeleteRun deletes a run and its artifacts
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	runID, err := s.parseRunID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.DeleteRun(r.Context(), runID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
