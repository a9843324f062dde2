package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerpulse/backend/internal/external/yahoo"
	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/ticker"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/database"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// stocksCmd groups market data operations
var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Market data operations",
	Long: `Fetch and inspect daily price history.

Example:
  go run ./cmd/pulse stocks fetch AAPL NVDA --range 3mo
  go run ./cmd/pulse stocks indicators AAPL --days 90`,
}

var stocksFetchCmd = &cobra.Command{
	Use:   "fetch [tickers...]",
	Short: "Fetch daily bars for tickers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStocksFetch,
}

var stocksIndicatorsCmd = &cobra.Command{
	Use:   "indicators [ticker]",
	Short: "Compute indicators from stored history",
	Args:  cobra.ExactArgs(1),
	RunE:  runStocksIndicators,
}

var (
	stocksRange string
	stocksDays  int
)

func init() {
	rootCmd.AddCommand(stocksCmd)
	stocksCmd.AddCommand(stocksFetchCmd)
	stocksCmd.AddCommand(stocksIndicatorsCmd)

	stocksFetchCmd.Flags().StringVar(&stocksRange, "range", "1mo", "history range: 1mo, 3mo, 6mo, 1y")
	stocksIndicatorsCmd.Flags().IntVar(&stocksDays, "days", 90, "days of stored history to use")
}

func newMarketService(cfg *config.Config, log *logger.Logger, db *database.DB, redisClient *redis.Client) *market.Service {
	limiter := redis.NewRateLimiter(redisClient, "tickerpulse")
	yahooClient := yahoo.New(cfg, log, limiter)
	repo := market.NewRepository(db.Pool)
	return market.NewService(yahooClient, repo, log)
}

func runStocksFetch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Price Fetch ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	tickers := make([]string, 0, len(args))
	for _, arg := range args {
		symbol := strings.ToUpper(arg)
		if !ticker.IsKnownTicker(symbol) {
			fmt.Printf("⚠️  Skipping unknown ticker: %s\n", symbol)
			continue
		}
		tickers = append(tickers, symbol)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no known tickers given")
	}

	service := newMarketService(cfg, log, db, redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results := service.FetchMany(ctx, tickers, stocksRange, market.Config{Workers: cfg.Ingest.Workers})

	fmt.Println()
	for _, result := range results {
		if result.Error != nil {
			fmt.Printf("❌ %s: %v\n", result.Ticker, result.Error)
		} else {
			fmt.Printf("✅ %s: %d bars\n", result.Ticker, result.Bars)
		}
	}

	return nil
}

func runStocksIndicators(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])
	if !ticker.IsKnownTicker(symbol) {
		return fmt.Errorf("unknown ticker: %s", symbol)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	service := newMarketService(cfg, log, db, redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ind, err := service.IndicatorsFor(ctx, symbol, stocksDays)
	if err != nil {
		return fmt.Errorf("compute indicators: %w", err)
	}

	fmt.Printf("📊 %s (%d days)\n", symbol, stocksDays)
	fmt.Printf("   SMA20:  %.2f\n", ind.SMA20)
	fmt.Printf("   SMA50:  %.2f\n", ind.SMA50)
	fmt.Printf("   RSI14:  %.2f\n", ind.RSI14)
	fmt.Printf("   MACD:   %.4f (signal %.4f, hist %.4f)\n", ind.MACD, ind.MACDSignal, ind.MACDHist)
	fmt.Printf("   Bollinger: %.2f / %.2f / %.2f\n", ind.BollLower, ind.BollMiddle, ind.BollUpper)
	fmt.Printf("   Volume ratio: %.2f\n", ind.VolumeRatio)

	return nil
}
