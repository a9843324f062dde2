package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/api"
	"github.com/tickerpulse/backend/internal/api/handlers"
	"github.com/tickerpulse/backend/internal/external/reddit"
	"github.com/tickerpulse/backend/internal/external/yahoo"
	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                         - Health check
  GET  /api/posts                      - List ingested posts
  GET  /api/posts/trending             - Trending tickers
  GET  /api/posts/ticker/{ticker}      - Posts mentioning a ticker
  GET  /api/posts/sentiment/{ticker}   - Sentiment rollup for a ticker
  GET  /api/posts/analytics/quality    - Quality analytics window
  GET  /api/stocks/prices/{ticker}     - Stored daily bars
  GET  /api/stocks/latest/{ticker}     - Latest stored bar
  GET  /api/stocks/indicators/{ticker} - Technical indicators
  POST /api/stocks/fetch/{ticker}      - On-demand price fetch
  POST /api/ingest/reddit              - Trigger an ingestion batch
  POST /api/ingest/backfill            - Re-evaluate quality threshold
  WS   /api/ws/trending                - Live trending feed

Example:
  go run ./cmd/pulse api
  go run ./cmd/pulse api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TickerPulse API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (degrades to no-ops when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "tickerpulse")
	limiter := redis.NewRateLimiter(redisClient, "tickerpulse")

	// 5. Create external API clients
	redditClient := reddit.New(cfg, log, limiter)
	yahooClient := yahoo.New(cfg, log, limiter)

	// 6. Create repositories
	postsRepo := posts.NewRepository(db.Pool)
	marketRepo := market.NewRepository(db.Pool)

	// 7. Create ingestion pipeline
	pipeline := ingest.New(redditClient, ingest.NewPostsStore(postsRepo), ingest.Config{
		FetchLimit: cfg.Ingest.Limit,
		FetchMode:  cfg.Ingest.PostType,
		MinQuality: float64(cfg.Ingest.MinQuality),
	}, log.WithField("module", "ingest"))

	// 8. Create market data service
	marketService := market.NewService(yahooClient, marketRepo, log)

	// 9. Create handlers
	postsHandler := handlers.NewPostsHandler(postsRepo, cache, log)
	stocksHandler := handlers.NewStocksHandler(marketService, marketRepo, cache, cfg.Ingest.Workers, log)
	ingestHandler := handlers.NewIngestHandler(pipeline, postsRepo, cache, cfg, log)

	// 10. Create the live trending feed
	trendingWS := api.NewTrendingStream(postsRepo, log.WithField("module", "ws"))

	streamCtx, streamCancel := context.WithCancel(context.Background())
	defer streamCancel()
	trendingWS.Start(streamCtx)

	// 11. Create router and server
	router := api.NewRouter(postsHandler, stocksHandler, ingestHandler, trendingWS, limiter, log)
	server := api.New(cfg, log, router)

	// 12. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	trendingWS.Stop()
	streamCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
