package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/external/reddit"
	"github.com/tickerpulse/backend/internal/external/yahoo"
	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/internal/scheduler"
	"github.com/tickerpulse/backend/internal/scheduler/jobs"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled jobs",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- reddit_ingest: every 30 minutes (ingestion batch)
- stock_fetch: hourly (prices for trending tickers)
- trending_refresh: every 10 minutes (warm the trending cache)
- maintenance: weekly (retention cleanup)

Example:
  go run ./cmd/pulse scheduler start
  go run ./cmd/pulse scheduler list
  go run ./cmd/pulse scheduler run reddit_ingest`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TickerPulse Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Printf("  - %s\n", name)
	}

	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	name := args[0]
	fmt.Printf("Running job: %s\n", name)

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	if err := sched.RunNow(name); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunNow is async; give the job a chance to finish before the
	// process (and its DB pool) goes away
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	fmt.Println("Job started, press Ctrl+C when done watching logs")
	<-quit

	return nil
}

// initScheduler builds the scheduler with all jobs registered.
// The returned cleanup closes the shared connections.
func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}

	cache := redis.NewCache(redisClient, "tickerpulse")
	limiter := redis.NewRateLimiter(redisClient, "tickerpulse")

	redditClient := reddit.New(cfg, log, limiter)
	yahooClient := yahoo.New(cfg, log, limiter)

	postsRepo := posts.NewRepository(db.Pool)
	marketRepo := market.NewRepository(db.Pool)

	pipeline := ingest.New(redditClient, ingest.NewPostsStore(postsRepo), ingest.Config{
		FetchLimit: cfg.Ingest.Limit,
		FetchMode:  cfg.Ingest.PostType,
		MinQuality: float64(cfg.Ingest.MinQuality),
	}, log.WithField("module", "ingest"))

	marketService := market.NewService(yahooClient, marketRepo, log)

	sched := scheduler.New(log)

	jobList := []scheduler.Job{
		jobs.NewRedditIngestJob(pipeline, cache, cfg.Ingest.Subreddits, log),
		jobs.NewStockFetchJob(marketService, postsRepo, cfg.Ingest.Workers, log),
		jobs.NewTrendingRefreshJob(postsRepo, cache, log),
		jobs.NewMaintenanceJob(postsRepo, marketRepo, cfg.Ingest.RetentionDays, log),
	}
	for _, job := range jobList {
		if err := sched.AddJob(job); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return sched, cleanup, nil
}
