package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-evaluator/internal/db"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse persisted evaluation runs",
}

var (
	runsDatabaseURL string
	runsCategory    string
	runsStatus      string
	runsLimit       int
)

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent evaluation runs",
	RunE:  runRunsList,
}

var runsReportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Print the markdown report for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsReport,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a run and its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runsListCmd.Flags().StringVar(&runsCategory, "category", "", "Filter by vendor category substring")
	runsListCmd.Flags().StringVar(&runsStatus, "status", "", "Filter by status (running, completed, failed)")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 0, "Maximum number of runs to show")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsReportCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func connectRunsDB(ctx context.Context) (*db.DB, error) {
	databaseURL := runsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	return db.Connect(ctx, databaseURL)
}

func runRunsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, db.RunFilters{
		Category: runsCategory,
		Status:   runsStatus,
		Limit:    runsLimit,
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	for _, run := range runs {
		recommended := run.Recommended
		if recommended == "" {
			recommended = "-"
		}
		fmt.Printf("%s  %-10s  %-20s  %s\n", run.ID, run.Status, recommended, run.Query)
	}
	return nil
}

func runRunsReport(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	report, err := database.GetTextArtifact(ctx, runID, db.StepReport)
	if err != nil {
		return err
	}
	if report == "" {
		return fmt.Errorf("no report found for run %s", runID)
	}

	fmt.Println(report)
	return nil
}

func runRunsDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteRun(ctx, runID); err != nil {
		return err
	}

	fmt.Printf("Deleted run %s\n", runID)
	return nil
}
