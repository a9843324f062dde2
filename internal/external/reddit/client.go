package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tickerpulse/backend/internal/ingest"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/httputil"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

const (
	defaultBaseURL = "https://www.reddit.com"
	maxPerRequest  = 100 // listing API page size cap
)

// Client fetches subreddit listings through the public JSON API.
// No OAuth: the unauthenticated endpoint is enough for read-only
// listings as long as the rate budget is respected, so requests are
// throttled locally and through the shared Redis limiter.
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates a listing client
func New(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *Client {
	baseURL := cfg.Reddit.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	http := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithUserAgent(cfg.Reddit.UserAgent).
		WithLocalLimit(1, 1)
	if limiter != nil {
		http = http.WithRateLimiter(limiter, redis.RedditRateLimit)
	}

	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

// Fetch returns up to limit posts from a subreddit listing. Mode is
// the listing ordering (hot, new, rising, top). Stickied posts are
// dropped since they are pinned announcements, not organic content.
func (c *Client) Fetch(ctx context.Context, subreddit string, limit int, mode string) ([]ingest.RawPost, error) {
	if limit <= 0 || limit > maxPerRequest {
		limit = maxPerRequest
	}
	switch mode {
	case "hot", "new", "rising", "top":
	default:
		mode = "hot"
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s",
		c.baseURL, url.PathEscape(subreddit), mode,
		url.Values{
			"limit":    {fmt.Sprintf("%d", limit)},
			"raw_json": {"1"},
		}.Encode())

	var payload listingResponse
	if err := c.http.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("listing request for r/%s: %w", subreddit, err)
	}

	posts := make([]ingest.RawPost, 0, len(payload.Data.Children))
	skippedStickied := 0
	for _, ch := range payload.Data.Children {
		p := ch.Data
		if p.Stickied {
			skippedStickied++
			continue
		}

		externalID := p.Name
		if externalID == "" {
			externalID = "t3_" + p.ID
		}

		posts = append(posts, ingest.RawPost{
			ExternalID:   externalID,
			Source:       p.Subreddit,
			Title:        p.Title,
			Body:         p.SelfText,
			Author:       p.Author,
			Upvotes:      p.Score,
			CommentCount: p.NumComments,
			UpvoteRatio:  p.UpvoteRatio,
			Permalink:    p.Permalink,
			IsSelf:       p.IsSelf,
			Flair:        p.LinkFlairText,
			PostedAt:     time.Unix(int64(p.CreatedUTC), 0).UTC(),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"subreddit": subreddit,
		"mode":      mode,
		"fetched":   len(posts),
		"stickied":  skippedStickied,
	}).Debug("Fetched subreddit listing")

	return posts, nil
}
