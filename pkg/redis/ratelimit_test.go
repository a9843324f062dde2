package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointLimit(t *testing.T) {
	cfg := EndpointLimit("posts:trending")
	assert.Equal(t, "posts:trending", cfg.Key)
	assert.Equal(t, 50, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)

	// Unknown identifiers fall back to the default read limit
	fallback := EndpointLimit("posts:nonexistent")
	assert.Equal(t, DefaultReadLimit, fallback)
}

func TestEndpointLimits_ClosedSet(t *testing.T) {
	// Expensive endpoints must stay well below read endpoints
	assert.Less(t, EndpointLimits["posts:ingest"].Limit, EndpointLimits["posts:list"].Limit)
	assert.Less(t, EndpointLimits["stocks:fetch"].Limit, EndpointLimits["stocks:latest"].Limit)

	for key, cfg := range EndpointLimits {
		assert.Equal(t, key, cfg.Key, "config key must match map key")
		assert.Positive(t, cfg.Limit)
		assert.Positive(t, cfg.Window)
	}
}

func TestRateLimiter_DisabledAllowsAll(t *testing.T) {
	limiter := NewRateLimiter(&Client{enabled: false}, "pulse")

	for i := 0; i < 10; i++ {
		allowed, remaining, err := limiter.Allow(context.Background(), RateLimitConfig{
			Key:    "posts:list",
			Limit:  2,
			Window: time.Minute,
		})
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2, remaining)
	}
}

func TestCache_DisabledIsNoop(t *testing.T) {
	cache := NewCache(&Client{enabled: false}, "pulse")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, TTLShort))

	var out map[string]int
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
