package jobs

import (
	"context"
	"time"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

const (
	trendingRefreshWindow = 24 * time.Hour
	trendingRefreshLimit  = 10
)

// TrendingRefreshJob recomputes the trending rollup and warms the
// cache so API reads stay fast between ingestion batches
type TrendingRefreshJob struct {
	repo   *posts.Repository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewTrendingRefreshJob creates a trending refresh job
func NewTrendingRefreshJob(repo *posts.Repository, cache *redis.Cache, log *logger.Logger) *TrendingRefreshJob {
	return &TrendingRefreshJob{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *TrendingRefreshJob) Name() string {
	return "trending_refresh"
}

// Schedule runs every 10 minutes
func (j *TrendingRefreshJob) Schedule() string {
	return "*/10 * * * *"
}

// Run refreshes the cached trending snapshot
func (j *TrendingRefreshJob) Run(ctx context.Context) error {
	trending, err := j.repo.TrendingTickers(ctx, trendingRefreshWindow, trendingRefreshLimit)
	if err != nil {
		return err
	}

	key := redis.TrendingKey(int(trendingRefreshWindow.Hours()), trendingRefreshLimit)
	if err := j.cache.Set(ctx, key, trending, redis.TTLMedium); err != nil {
		return err
	}

	j.logger.WithField("tickers", len(trending)).Debug("Trending cache refreshed")
	return nil
}
