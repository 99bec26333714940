// Package pipeline provides the high-level orchestration for a vendor
// evaluation run.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/vendor-evaluator/internal/db"
	"github.com/jonathan/vendor-evaluator/internal/discovery"
	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/observability"
	"github.com/jonathan/vendor-evaluator/internal/parsing"
	"github.com/jonathan/vendor-evaluator/internal/research"
	"github.com/jonathan/vendor-evaluator/internal/scoring"
	"github.com/jonathan/vendor-evaluator/internal/search"
	"github.com/jonathan/vendor-evaluator/internal/synthesis"
	"github.com/jonathan/vendor-evaluator/internal/types"
	"github.com/jonathan/vendor-evaluator/internal/weighting"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Query       string
	Client      llm.Client      // Required: LLM client shared by every phase
	Searcher    search.Searcher // Required: web search backend
	MaxParallel int             // Concurrent candidates during research
	FetchPages  bool            // Fetch vendor pricing pages during research
	Verbose     bool
	DatabaseURL string
	OnProgress  ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

// RunPipeline orchestrates the full evaluation: parse, identify, research,
// adjust weights, score, synthesize. Every phase is terminal on failure;
// persistence failures are warnings.
func RunPipeline(ctx context.Context, opts RunOptions) (*types.Recommendation, error) {

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Parse the raw query into a structured evaluation context
	fmt.Printf("Step 1/6: Parsing evaluation query...\n")
	evalCtx, err := parsing.ParseQuery(ctx, opts.Client, opts.Query)
	if err != nil {
		return nil, fmt.Errorf("query parsing failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintContext(evalCtx)
	}
	emitProgress(&opts, db.StepContext,
		fmt.Sprintf("Parsed evaluation context: %s", evalCtx.Category), evalCtx)

	// Save to database if connected
	if database != nil {
		runID, err = database.CreateRun(ctx, opts.Query, evalCtx.Category)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		} else {
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveArtifact(ctx, runID, db.StepContext, evalCtx)
		}
	}

	// Step 2: Identify candidate vendors via web search
	fmt.Printf("Step 2/6: Identifying candidate vendors...\n")
	identifier := discovery.NewIdentifier(opts.Client, opts.Searcher)
	candidates, err := identifier.Identify(ctx, evalCtx)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("candidate identification failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintCandidates(candidates)
	}
	emitProgress(&opts, db.StepCandidates,
		fmt.Sprintf("Identified %d candidates", len(candidates)), candidates)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepCandidates, candidates)
	}

	// Step 3: Research every candidate concurrently
	fmt.Printf("Step 3/6: Researching %d candidates across %d dimensions...\n",
		len(candidates), len(types.Dimensions()))
	researcher := research.NewResearcher(opts.Client, opts.Searcher, research.Options{
		MaxParallel: opts.MaxParallel,
		FetchPages:  opts.FetchPages,
	})
	findings, failures, err := researcher.ResearchCandidates(ctx, candidates, evalCtx)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("research failed: %w", err)
	}
	for _, failure := range failures {
		fmt.Printf("Warning: %v\n", failure)
	}
	if opts.Verbose {
		printer.PrintFindings(findings)
	}
	emitProgress(&opts, db.StepFindings,
		fmt.Sprintf("Researched %d candidates (%d failed)", len(findings), len(failures)), nil)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepFindings, findings)
	}

	// Step 4: Adjust criterion weights based on what research discovered
	fmt.Printf("Step 4/6: Adjusting criterion weights...\n")
	initial := weighting.InitialWeights(evalCtx)
	adjuster := weighting.NewAdjuster(opts.Client)
	weights, adjustments := adjuster.AdjustWeights(ctx, initial, findings, evalCtx)
	if opts.Verbose {
		printer.PrintWeights(weights)
	}
	emitProgress(&opts, db.StepWeights,
		fmt.Sprintf("Applied %d material weight adjustments", len(adjustments)), adjustments)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepWeights, weights)
		_ = database.SaveArtifact(ctx, runID, db.StepAdjustments, adjustments)
	}

	// Step 5: Score every candidate against the final weights
	fmt.Printf("Step 5/6: Scoring candidates...\n")
	judge := scoring.NewLLMJudge(opts.Client)
	scores := scoring.ScoreVendors(ctx, judge, findings, weights, evalCtx)
	if opts.Verbose {
		printer.PrintScores(scores)
	}
	emitProgress(&opts, db.StepScores,
		fmt.Sprintf("Scored %d candidates", len(scores)), scores)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepScores, scores)
	}

	// Step 6: Synthesize the final recommendation and report
	fmt.Printf("Step 6/6: Synthesizing recommendation...\n")
	synthesizer := synthesis.NewSynthesizer(opts.Client)
	rec, err := synthesizer.Synthesize(ctx, synthesis.Input{
		Context:     evalCtx,
		Candidates:  candidates,
		Findings:    findings,
		Weights:     weights,
		Adjustments: adjustments,
		Scores:      scores,
	})
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintRecommendation(rec)
	}
	emitProgress(&opts, db.StepRecommendation,
		fmt.Sprintf("Recommended %s", rec.RecommendedVendor), rec)

	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepRecommendation, rec)
		_ = database.SaveTextArtifact(ctx, runID, db.StepReport, rec.Report)
		_ = database.CompleteRun(ctx, runID, db.RunStatusCompleted, rec.RecommendedVendor)
	}

	fmt.Printf("Done! Recommended vendor: %s\n", rec.RecommendedVendor)
	return rec, nil
}

// failRun marks a persisted run as failed; persistence errors are ignored.
func failRun(ctx context.Context, database *db.DB, runID uuid.UUID) {
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, db.RunStatusFailed, "")
	}
}
