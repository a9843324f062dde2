package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/internal/quality"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
)

// analyticsCmd prints the quality analytics for a window
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show quality analytics",
	Long: `Summarizes post quality over a time window: average score,
tier distribution, and the share above/below the threshold.

Example:
  go run ./cmd/pulse analytics
  go run ./cmd/pulse analytics --hours 72 --threshold 60`,
	RunE: runAnalytics,
}

var (
	analyticsHours     int
	analyticsThreshold float64
)

func init() {
	rootCmd.AddCommand(analyticsCmd)

	analyticsCmd.Flags().IntVar(&analyticsHours, "hours", 24, "window in hours")
	analyticsCmd.Flags().Float64Var(&analyticsThreshold, "threshold", 50, "quality score threshold (0-100)")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := posts.NewRepository(db.Pool)

	analytics, err := repo.QualityAnalytics(ctx, analyticsHours, analyticsThreshold)
	if err != nil {
		return fmt.Errorf("query analytics: %w", err)
	}

	fmt.Printf("📊 Quality analytics, last %dh (threshold %.0f)\n\n", analyticsHours, analyticsThreshold)
	fmt.Printf("   Total posts:  %d\n", analytics.TotalPosts)
	fmt.Printf("   Avg score:    %.2f\n", analytics.AvgQualityScore)
	fmt.Printf("   Above threshold: %.1f%%\n", analytics.HighQualityPct)
	fmt.Printf("   Below threshold: %.1f%%\n", analytics.LowQualityPct)
	fmt.Println("\n   Tier distribution:")
	for _, tier := range []string{quality.TierExcellent, quality.TierGood, quality.TierFair, quality.TierPoor} {
		fmt.Printf("     %-10s %d\n", tier, analytics.TierCounts[tier])
	}

	return nil
}
