package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/logger"
)

const (
	stockFetchWindow = 24 * time.Hour
	stockFetchLimit  = 20
	stockFetchRange  = "1mo"
)

// StockFetchJob pulls daily bars for the tickers currently trending
// in ingested posts
type StockFetchJob struct {
	service *market.Service
	posts   *posts.Repository
	workers int
	logger  *logger.Logger
}

// NewStockFetchJob creates a stock fetch job
func NewStockFetchJob(service *market.Service, postsRepo *posts.Repository, workers int, log *logger.Logger) *StockFetchJob {
	return &StockFetchJob{
		service: service,
		posts:   postsRepo,
		workers: workers,
		logger:  log,
	}
}

// Name returns the job name
func (j *StockFetchJob) Name() string {
	return "stock_fetch"
}

// Schedule runs hourly
func (j *StockFetchJob) Schedule() string {
	return "@hourly"
}

// Run fetches price history for the trending watchlist
func (j *StockFetchJob) Run(ctx context.Context) error {
	trending, err := j.posts.TrendingTickers(ctx, stockFetchWindow, stockFetchLimit)
	if err != nil {
		return fmt.Errorf("failed to build watchlist: %w", err)
	}

	if len(trending) == 0 {
		j.logger.Debug("No trending tickers, skipping price fetch")
		return nil
	}

	watchlist := make([]string, len(trending))
	for i, t := range trending {
		watchlist[i] = t.Ticker
	}

	results := j.service.FetchMany(ctx, watchlist, stockFetchRange, market.Config{Workers: j.workers})

	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
		}
	}

	// Only fail the job when nothing at all came through
	if failed == len(results) {
		return fmt.Errorf("all %d price fetches failed", failed)
	}

	return nil
}
