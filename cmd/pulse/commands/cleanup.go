package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
)

// cleanupCmd deletes data past the retention window
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete posts and prices past retention",
	Long: `Deletes posts and daily price bars older than the retention
window. Defaults to INGEST_RETENTION_DAYS.

Example:
  go run ./cmd/pulse cleanup
  go run ./cmd/pulse cleanup --days 30`,
	RunE: runCleanup,
}

var cleanupDays int

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "retention window in days (overrides INGEST_RETENTION_DAYS)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Retention Cleanup ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	days := cfg.Ingest.RetentionDays
	if cleanupDays > 0 {
		days = cleanupDays
	}
	if days <= 0 {
		return fmt.Errorf("retention window must be positive, got %d", days)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	age := time.Duration(days) * 24 * time.Hour

	postsRepo := posts.NewRepository(db.Pool)
	postsDeleted, err := postsRepo.DeleteOlderThan(ctx, age)
	if err != nil {
		return fmt.Errorf("delete old posts: %w", err)
	}

	marketRepo := market.NewRepository(db.Pool)
	pricesDeleted, err := marketRepo.DeleteOlderThan(ctx, age)
	if err != nil {
		return fmt.Errorf("delete old prices: %w", err)
	}

	fmt.Printf("✅ Deleted %d posts and %d price bars older than %d days\n", postsDeleted, pricesDeleted, days)
	return nil
}
