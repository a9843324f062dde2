package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting using Redis
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // Unique identifier (e.g., "posts:list", "reddit")
	Limit  int           // Maximum requests allowed
	Window time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// Allow checks if a request is allowed under the rate limit.
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		// If Redis is disabled, allow all requests
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	rdb := r.client.Redis()

	// Use Lua script for atomic operation
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		-- Remove old entries outside the window
		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		-- Count current requests in window
		local count = redis.call('ZCARD', key)

		if count < limit then
			-- Add current request
			redis.call('ZADD', key, now, now)
			redis.call('PEXPIRE', key, window_ms)
			return {1, limit - count - 1}
		else
			return {0, 0}
		end
	`)

	result, err := script.Run(ctx, rdb, []string{key},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := result[0].(int64) == 1
	remaining := int(result[1].(int64))

	return allowed, remaining, nil
}

// AllowClient applies a per-caller rate limit by folding the caller
// identity (API key or remote address) into the limit key.
func (r *RateLimiter) AllowClient(ctx context.Context, cfg RateLimitConfig, clientID string) (bool, int, error) {
	scoped := cfg
	scoped.Key = fmt.Sprintf("%s:%s", cfg.Key, clientID)
	return r.Allow(ctx, scoped)
}

// Wait blocks until a request is allowed or context is cancelled
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		// Wait before retrying
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			// Retry
		}
	}
}

// Predefined rate limit configs for external APIs
var (
	// Reddit listing API: stay under the unauthenticated 60/min budget
	RedditRateLimit = RateLimitConfig{
		Key:    "reddit",
		Limit:  55,
		Window: time.Minute,
	}

	// Yahoo chart API: conservative
	YahooRateLimit = RateLimitConfig{
		Key:    "yahoo",
		Limit:  30,
		Window: time.Minute,
	}
)

// EndpointLimits maps API endpoint identifiers to their rate limits.
// The key set is closed: handlers must use one of these identifiers,
// unknown keys fall back to DefaultReadLimit. Read endpoints get high
// limits (cheap, mostly cached), aggregations medium, and anything
// that triggers external API calls very low.
var EndpointLimits = map[string]RateLimitConfig{
	"posts:list":      {Key: "posts:list", Limit: 100, Window: time.Minute},
	"posts:ticker":    {Key: "posts:ticker", Limit: 100, Window: time.Minute},
	"posts:trending":  {Key: "posts:trending", Limit: 50, Window: time.Minute},
	"posts:sentiment": {Key: "posts:sentiment", Limit: 50, Window: time.Minute},
	"posts:analytics": {Key: "posts:analytics", Limit: 50, Window: time.Minute},
	"posts:ingest":    {Key: "posts:ingest", Limit: 5, Window: time.Hour},

	"stocks:prices": {Key: "stocks:prices", Limit: 100, Window: time.Minute},
	"stocks:latest": {Key: "stocks:latest", Limit: 200, Window: time.Minute},
	"stocks:fetch":  {Key: "stocks:fetch", Limit: 20, Window: time.Minute},

	"default:read":  {Key: "default:read", Limit: 100, Window: time.Minute},
	"default:write": {Key: "default:write", Limit: 30, Window: time.Minute},
}

// DefaultReadLimit is the fallback for unknown endpoint identifiers
var DefaultReadLimit = EndpointLimits["default:read"]

// EndpointLimit resolves an endpoint identifier to its rate limit config
func EndpointLimit(key string) RateLimitConfig {
	if cfg, ok := EndpointLimits[key]; ok {
		return cfg
	}
	return DefaultReadLimit
}
