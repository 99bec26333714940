package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-evaluator/internal/config"
	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/pipeline"
	"github.com/jonathan/vendor-evaluator/internal/search"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [query]",
	Short: "Run a full vendor evaluation end-to-end",
	Long: `Orchestrates the entire evaluation process: context parsing -> candidate identification -> web research -> weight adjustment -> scoring -> synthesis.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.ArbitraryArgs,
	RunE: runEvaluate,
}

var (
	evalConfigPath     string
	evalQuery          string
	evalAPIKey         string
	evalSearchAPIKey   string
	evalSearchEngineID string
	evalMaxParallel    int
	evalFetchPages     bool
	evalVerbose        bool
	evalOutput         string
	evalDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	evaluateCmd.Flags().StringVar(&evalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	evaluateCmd.Flags().StringVarP(&evalQuery, "query", "q", "", "Vendor evaluation query (alternative to positional args)")
	evaluateCmd.Flags().IntVar(&evalMaxParallel, "max-parallel", 0, "Concurrent candidates during research")
	evaluateCmd.Flags().BoolVar(&evalFetchPages, "fetch-pages", false, "Fetch vendor pricing pages during research (slower, more evidence)")
	evaluateCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Print detailed debug information")
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "", "Path to write the markdown report (defaults to stdout)")

	// API keys can be passed as flags, or read from env vars
	evaluateCmd.Flags().StringVar(&evalAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	evaluateCmd.Flags().StringVar(&evalSearchAPIKey, "search-api-key", "", "Google Custom Search API key (optional, defaults to SEARCH_API_KEY env var)")
	evaluateCmd.Flags().StringVar(&evalSearchEngineID, "search-engine-id", "", "Google Custom Search engine ID (optional, defaults to SEARCH_ENGINE_ID env var)")

	// Database URL for artifact persistence
	evaluateCmd.Flags().StringVar(&evalDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if evalConfigPath != "" {
		loadedCfg, err := config.LoadConfig(evalConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if evalVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", evalConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if len(args) > 0 {
		cfg.Query = strings.Join(args, " ")
	}
	if cmd.Flags().Changed("query") {
		cfg.Query = evalQuery
	}
	if cmd.Flags().Changed("max-parallel") {
		cfg.MaxParallel = evalMaxParallel
	}
	if cmd.Flags().Changed("fetch-pages") {
		cfg.FetchPages = evalFetchPages
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = evalVerbose
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputPath = evalOutput
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = evalAPIKey
	}
	if cmd.Flags().Changed("search-api-key") {
		cfg.SearchAPIKey = evalSearchAPIKey
	}
	if cmd.Flags().Changed("search-engine-id") {
		cfg.SearchEngineID = evalSearchEngineID
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = evalDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{MaxParallel: 3})

	// Step 4: Validate required fields
	if cfg.Query == "" {
		return fmt.Errorf("a query is required (as positional args, --query, or via config)")
	}

	// Step 5: Credential handling (flag/config first, then environment)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if cfg.SearchAPIKey == "" {
		cfg.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
	}
	if cfg.SearchAPIKey == "" {
		return fmt.Errorf("SEARCH_API_KEY environment variable or --search-api-key flag is required")
	}
	if cfg.SearchEngineID == "" {
		cfg.SearchEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if cfg.SearchEngineID == "" {
		return fmt.Errorf("SEARCH_ENGINE_ID environment variable or --search-engine-id flag is required")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 6: Build the shared clients
	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	searcher, err := search.NewGoogleSearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	rec, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		Query:       cfg.Query,
		Client:      client,
		Searcher:    searcher,
		MaxParallel: cfg.MaxParallel,
		FetchPages:  cfg.FetchPages,
		Verbose:     cfg.Verbose,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, []byte(rec.Report), 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", cfg.OutputPath, err)
		}
		fmt.Printf("\nReport written to %s\n", cfg.OutputPath)
		return nil
	}

	fmt.Println()
	fmt.Println(rec.Report)
	return nil
}
