package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "TickerPulse - stock sentiment ingestion and analytics",
	Long: `TickerPulse CLI

Ingests stock-discussion posts, gates them on ticker mentions and a
quality score, annotates them with sentiment, and serves the results
over a REST API.

Usage:
  go run ./cmd/pulse [command]

Examples:
  go run ./cmd/pulse api
  go run ./cmd/pulse ingest wallstreetbets stocks
  go run ./cmd/pulse scheduler start
  go run ./cmd/pulse analytics --hours 24`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
