package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/external/reddit"
	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [subreddits...]",
	Short: "Run one ingestion batch",
	Long: `Fetches posts from the given subreddits (or the configured
defaults), gates them on ticker mentions and quality, annotates them
with sentiment, and persists the survivors.

Example:
  go run ./cmd/pulse ingest
  go run ./cmd/pulse ingest wallstreetbets stocks --mode new --limit 50`,
	RunE: runIngest,
}

var (
	ingestLimit int
	ingestMode  string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestLimit, "limit", 0, "posts fetched per source (overrides INGEST_LIMIT)")
	ingestCmd.Flags().StringVar(&ingestMode, "mode", "", "listing ordering: hot, new, rising, top")
}

func runIngest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TickerPulse Ingestion ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ingestLimit > 0 {
		cfg.Ingest.Limit = ingestLimit
	}
	if ingestMode != "" {
		cfg.Ingest.PostType = ingestMode
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	limiter := redis.NewRateLimiter(redisClient, "tickerpulse")
	redditClient := reddit.New(cfg, log, limiter)
	postsRepo := posts.NewRepository(db.Pool)

	pipeline := ingest.New(redditClient, ingest.NewPostsStore(postsRepo), ingest.Config{
		FetchLimit: cfg.Ingest.Limit,
		FetchMode:  cfg.Ingest.PostType,
		MinQuality: float64(cfg.Ingest.MinQuality),
	}, log.WithField("module", "ingest"))

	sources := args
	if len(sources) == 0 {
		sources = cfg.Ingest.Subreddits
	}

	fmt.Printf("Sources: %v (mode=%s, limit=%d)\n\n", sources, cfg.Ingest.PostType, cfg.Ingest.Limit)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := pipeline.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Println("✅ Ingestion completed")
	fmt.Printf("   Fetched: %d\n", stats.Fetched)
	fmt.Printf("   Saved:   %d\n", stats.Saved)
	fmt.Printf("   Skipped: %d\n", stats.Skipped)
	for reason, n := range stats.SkipReasons {
		if n > 0 {
			fmt.Printf("     - %s: %d\n", reason, n)
		}
	}
	fmt.Printf("   Failed:  %d\n", stats.Failed)
	fmt.Printf("   Acceptance rate: %.1f%%\n", stats.AcceptanceRate())
	fmt.Printf("   Duration: %s\n", stats.Duration().Round(time.Millisecond))

	return nil
}
