// Package main provides the entry point for the vendor evaluation agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vendor_agent",
	Short: "LLM-driven vendor evaluation agent",
	Long:  "Vendor Agent researches vendor candidates for a procurement query, scores them against weighted criteria with live web evidence, and produces a reproducible recommendation report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
