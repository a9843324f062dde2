package jobs

import (
	"context"

	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// RedditIngestJob runs one ingestion batch over the configured
// subreddits
type RedditIngestJob struct {
	pipeline *ingest.Pipeline
	cache    *redis.Cache
	sources  []string
	logger   *logger.Logger
}

// NewRedditIngestJob creates an ingestion job
func NewRedditIngestJob(pipeline *ingest.Pipeline, cache *redis.Cache, sources []string, log *logger.Logger) *RedditIngestJob {
	return &RedditIngestJob{
		pipeline: pipeline,
		cache:    cache,
		sources:  sources,
		logger:   log,
	}
}

// Name returns the job name
func (j *RedditIngestJob) Name() string {
	return "reddit_ingest"
}

// Schedule runs every 30 minutes
func (j *RedditIngestJob) Schedule() string {
	return "*/30 * * * *"
}

// Run executes one ingestion batch
func (j *RedditIngestJob) Run(ctx context.Context) error {
	stats, err := j.pipeline.Run(ctx, j.sources)
	if err != nil {
		return err
	}

	if stats.Saved > 0 {
		if _, err := j.cache.InvalidatePrefix(ctx, "posts:"); err != nil {
			j.logger.WithError(err).Warn("Failed to invalidate post caches")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"fetched":         stats.Fetched,
		"saved":           stats.Saved,
		"acceptance_rate": stats.AcceptanceRate(),
	}).Info("Scheduled ingestion finished")

	return nil
}
