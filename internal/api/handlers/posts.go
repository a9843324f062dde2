package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/internal/ticker"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// PostsHandler serves the read side of ingested posts
type PostsHandler struct {
	repo   *posts.Repository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewPostsHandler creates a posts handler
func NewPostsHandler(repo *posts.Repository, cache *redis.Cache, log *logger.Logger) *PostsHandler {
	return &PostsHandler{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// postView is the response shape for a post. Scores are rounded to
// two decimals here, at the reporting boundary.
type postView struct {
	ID             int64     `json:"id"`
	ExternalID     string    `json:"external_id"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Author         string    `json:"author"`
	Upvotes        int       `json:"upvotes"`
	CommentCount   int       `json:"comment_count"`
	UpvoteRatio    float64   `json:"upvote_ratio"`
	Tickers        []string  `json:"tickers"`
	Sentiment      float64   `json:"sentiment"`
	SentimentLabel string    `json:"sentiment_label"`
	QualityScore   float64   `json:"quality_score"`
	QualityTier    string    `json:"quality_tier"`
	IsQuality      bool      `json:"is_quality"`
	Permalink      string    `json:"permalink"`
	PostedAt       time.Time `json:"posted_at"`
}

func toView(p *posts.Post) postView {
	return postView{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		Source:         p.Source,
		Title:          p.Title,
		Body:           p.Body,
		Author:         p.Author,
		Upvotes:        p.Upvotes,
		CommentCount:   p.CommentCount,
		UpvoteRatio:    p.UpvoteRatio,
		Tickers:        p.Tickers,
		Sentiment:      round2(p.Sentiment),
		SentimentLabel: p.SentimentLabel,
		QualityScore:   round2(p.QualityScore),
		QualityTier:    p.QualityTier,
		IsQuality:      p.IsQuality,
		Permalink:      p.Permalink,
		PostedAt:       p.PostedAt,
	}
}

func toViews(list []*posts.Post) []postView {
	views := make([]postView, len(list))
	for i, p := range list {
		views[i] = toView(p)
	}
	return views
}

// List returns recent posts
// GET /api/posts?source=&min_quality=&quality_only=&limit=&offset=
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := posts.ListFilter{
		Source:      r.URL.Query().Get("source"),
		MinQuality:  queryFloat(r, "min_quality", 0, 0, 100),
		QualityOnly: r.URL.Query().Get("quality_only") == "true",
		Limit:       queryInt(r, "limit", 50, 1, 200),
		Offset:      queryInt(r, "offset", 0, 0, 100000),
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list posts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": toViews(list),
		"count": len(list),
	})
}

// ByTicker returns posts mentioning a ticker
// GET /api/posts/ticker/{ticker}?limit=
func (h *PostsHandler) ByTicker(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["ticker"])
	if !ticker.IsKnownTicker(symbol) {
		respondError(w, http.StatusNotFound, "Unknown ticker symbol")
		return
	}

	limit := queryInt(r, "limit", 50, 1, 200)

	list, err := h.repo.ListByTicker(r.Context(), symbol, limit)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to list posts by ticker")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": symbol,
		"posts":  toViews(list),
		"count":  len(list),
	})
}

// Trending returns tickers ranked by mention volume
// GET /api/posts/trending?hours=&limit=
func (h *PostsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24, 1, 168)
	limit := queryInt(r, "limit", 10, 1, 50)

	var trending []posts.TrendingTicker
	err := h.cache.GetOrSet(r.Context(), redis.TrendingKey(hours, limit), &trending, redis.TTLMedium, func() (interface{}, error) {
		return h.repo.TrendingTickers(r.Context(), time.Duration(hours)*time.Hour, limit)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to get trending tickers")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve trending tickers")
		return
	}

	for i := range trending {
		trending[i].AvgSentiment = round2(trending[i].AvgSentiment)
		trending[i].AvgQuality = round2(trending[i].AvgQuality)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"window_hours": hours,
		"trending":     trending,
	})
}

// Sentiment returns the sentiment rollup for one ticker
// GET /api/posts/sentiment/{ticker}?hours=
func (h *PostsHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["ticker"])
	if !ticker.IsKnownTicker(symbol) {
		respondError(w, http.StatusNotFound, "Unknown ticker symbol")
		return
	}

	hours := queryInt(r, "hours", 24, 1, 168)

	var rollup *posts.TickerSentiment
	err := h.cache.GetOrSet(r.Context(), redis.TickerSentimentKey(symbol, hours), &rollup, redis.TTLMedium, func() (interface{}, error) {
		return h.repo.SentimentForTicker(r.Context(), symbol, time.Duration(hours)*time.Hour)
	})
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to get ticker sentiment")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve sentiment")
		return
	}

	rollup.AvgSentiment = round2(rollup.AvgSentiment)
	respondJSON(w, http.StatusOK, rollup)
}

// QualityAnalytics returns the quality summary for a window
// GET /api/posts/analytics/quality?hours=&threshold=
func (h *PostsHandler) QualityAnalytics(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24, 1, 720)
	threshold := queryFloat(r, "threshold", 50, 0, 100)

	var analytics *posts.QualityAnalytics
	key := redis.QualityAnalyticsKey(hours, int(threshold))
	err := h.cache.GetOrSet(r.Context(), key, &analytics, redis.TTLLong, func() (interface{}, error) {
		return h.repo.QualityAnalytics(r.Context(), hours, threshold)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to get quality analytics")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}

	analytics.AvgQualityScore = round2(analytics.AvgQualityScore)
	analytics.HighQualityPct = round2(analytics.HighQualityPct)
	analytics.LowQualityPct = round2(analytics.LowQualityPct)
	respondJSON(w, http.StatusOK, analytics)
}
