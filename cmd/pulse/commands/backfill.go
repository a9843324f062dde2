package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
)

// backfillCmd re-evaluates the stored quality flags against a new
// threshold
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Re-evaluate quality flags against a new threshold",
	Long: `Recomputes is_quality for every stored post against the given
threshold. Stored quality scores are unchanged; only the flag flips.
Safe to run repeatedly.

Example:
  go run ./cmd/pulse backfill --threshold 60`,
	RunE: runBackfill,
}

var backfillThreshold float64

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().Float64Var(&backfillThreshold, "threshold", 50, "quality score threshold (0-100)")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quality Backfill ===")

	if backfillThreshold < 0 || backfillThreshold > 100 {
		return fmt.Errorf("threshold must be in [0,100], got %.1f", backfillThreshold)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo := posts.NewRepository(db.Pool)

	changed, err := repo.RecomputeIsQuality(ctx, backfillThreshold)
	if err != nil {
		return fmt.Errorf("recompute quality flags: %w", err)
	}

	fmt.Printf("✅ Threshold %.1f applied, %d posts changed\n", backfillThreshold, changed)
	return nil
}
