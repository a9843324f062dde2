package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// IngestHandler triggers ingestion and maintenance operations
type IngestHandler struct {
	pipeline *ingest.Pipeline
	repo     *posts.Repository
	cache    *redis.Cache
	cfg      *config.Config
	logger   *logger.Logger
}

// NewIngestHandler creates an ingest handler
func NewIngestHandler(pipeline *ingest.Pipeline, repo *posts.Repository, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		pipeline: pipeline,
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		logger:   log,
	}
}

// RunRequest optionally overrides the configured sources
type RunRequest struct {
	Sources []string `json:"sources"`
}

// Run executes one ingestion batch
// POST /api/ingest/reddit
func (h *IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	sources := req.Sources
	if len(sources) == 0 {
		sources = h.cfg.Ingest.Subreddits
	}

	stats, err := h.pipeline.Run(r.Context(), sources)
	if err != nil {
		h.logger.WithError(err).Error("Ingestion batch failed")
		respondError(w, http.StatusInternalServerError, "Ingestion failed")
		return
	}

	// New posts invalidate trending and sentiment rollups
	if _, err := h.cache.InvalidatePrefix(r.Context(), "posts:"); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate post caches")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":           stats,
		"acceptance_rate": round2(stats.AcceptanceRate()),
	})
}

// BackfillRequest carries the new acceptance threshold
type BackfillRequest struct {
	Threshold float64 `json:"threshold"`
}

// Backfill re-evaluates is_quality for all stored posts against a
// new threshold. Idempotent.
// POST /api/ingest/backfill
func (h *IngestHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Threshold < 0 || req.Threshold > 100 {
		respondError(w, http.StatusBadRequest, "Threshold must be in [0,100]")
		return
	}

	changed, err := h.repo.RecomputeIsQuality(r.Context(), req.Threshold)
	if err != nil {
		h.logger.WithError(err).Error("Quality backfill failed")
		respondError(w, http.StatusInternalServerError, "Backfill failed")
		return
	}

	if _, err := h.cache.InvalidatePrefix(r.Context(), "posts:"); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate post caches")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": req.Threshold,
		"changed":   changed,
	})
}
