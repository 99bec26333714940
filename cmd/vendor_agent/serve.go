package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-evaluator/internal/config"
	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/search"
	"github.com/jonathan/vendor-evaluator/internal/server"
)

var (
	serveConfigPath string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running evaluations and browsing past runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}
	cfg = cfg.MergeWithDefaults(config.Config{MaxParallel: 3, ListenAddr: ":8080"})

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.SearchAPIKey == "" {
		cfg.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
	}
	if cfg.SearchAPIKey == "" {
		return fmt.Errorf("SEARCH_API_KEY environment variable is required")
	}
	if cfg.SearchEngineID == "" {
		cfg.SearchEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if cfg.SearchEngineID == "" {
		return fmt.Errorf("SEARCH_ENGINE_ID environment variable is required")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	searcher, err := search.NewGoogleSearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	srv, err := server.New(server.Config{
		Addr:        cfg.ListenAddr,
		DatabaseURL: cfg.DatabaseURL,
		Client:      client,
		Searcher:    searcher,
		MaxParallel: cfg.MaxParallel,
		FetchPages:  cfg.FetchPages,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
