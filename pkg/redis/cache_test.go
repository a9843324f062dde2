package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient is enabled but points at nothing, so every Redis
// command fails. Get treats any command error as a miss.
func unreachableClient() *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
		enabled: true,
	}
}

type rollup struct {
	AvgSentiment float64 `json:"avg_sentiment"`
}

func TestGetOrSet_PopulatesDestWhenCacheWriteFails(t *testing.T) {
	cache := NewCache(unreachableClient(), "test")

	var dest *rollup
	err := cache.GetOrSet(context.Background(), "sentiment:NVDA:24h", &dest, time.Minute, func() (interface{}, error) {
		return &rollup{AvgSentiment: 0.5}, nil
	})

	require.NoError(t, err)
	require.NotNil(t, dest, "computed value must reach the caller even when Redis is down")
	assert.InDelta(t, 0.5, dest.AvgSentiment, 1e-9)
}

func TestGetOrSet_DisabledClientCallsThrough(t *testing.T) {
	cache := NewCache(&Client{enabled: false}, "test")

	calls := 0
	var dest rollup
	err := cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return rollup{AvgSentiment: -0.25}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.InDelta(t, -0.25, dest.AvgSentiment, 1e-9)
}

func TestGetOrSet_PropagatesFnError(t *testing.T) {
	cache := NewCache(unreachableClient(), "test")

	var dest rollup
	err := cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		return nil, assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
}
