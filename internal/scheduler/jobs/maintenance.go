package jobs

import (
	"context"
	"time"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/logger"
)

// MaintenanceJob deletes posts and price bars past the retention
// window
type MaintenanceJob struct {
	posts         *posts.Repository
	prices        *market.Repository
	retentionDays int
	logger        *logger.Logger
}

// NewMaintenanceJob creates a maintenance job
func NewMaintenanceJob(postsRepo *posts.Repository, pricesRepo *market.Repository, retentionDays int, log *logger.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		posts:         postsRepo,
		prices:        pricesRepo,
		retentionDays: retentionDays,
		logger:        log,
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Schedule runs weekly, Sunday 03:00
func (j *MaintenanceJob) Schedule() string {
	return "0 3 * * 0"
}

// Run deletes data older than the retention window
func (j *MaintenanceJob) Run(ctx context.Context) error {
	age := time.Duration(j.retentionDays) * 24 * time.Hour

	postsDeleted, err := j.posts.DeleteOlderThan(ctx, age)
	if err != nil {
		return err
	}

	pricesDeleted, err := j.prices.DeleteOlderThan(ctx, age)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"posts_deleted":  postsDeleted,
		"prices_deleted": pricesDeleted,
		"retention_days": j.retentionDays,
	}).Info("Retention cleanup completed")

	return nil
}
