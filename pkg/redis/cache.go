package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Cache provides typed caching utilities on top of Client
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// InvalidatePrefix removes every cached value whose key starts with the given prefix
func (c *Cache) InvalidatePrefix(ctx context.Context, keyPrefix string) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	pattern := fmt.Sprintf("%s:cache:%s*", c.prefix, keyPrefix)
	rdb := c.client.Redis()

	deleted := 0
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan failed: %w", err)
	}

	return deleted, nil
}

// GetOrSet retrieves from cache or calls fn to populate it
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	// Try cache first
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return err
	}

	// Store in cache. A write failure only loses the cache entry;
	// the computed value is still returned to the caller.
	_ = c.Set(ctx, key, value, ttl)

	// Unmarshal into dest
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // latest quotes
	TTLMedium = 5 * time.Minute  // trending tickers, sentiment rollups
	TTLLong   = 15 * time.Minute // quality analytics windows
	TTLDaily  = 24 * time.Hour   // historical price ranges
)

// Common cache key generators

func TrendingKey(hours, limit int) string {
	return fmt.Sprintf("posts:trending:%dh:%d", hours, limit)
}

func TickerSentimentKey(ticker string, hours int) string {
	return fmt.Sprintf("posts:sentiment:%s:%dh", strings.ToUpper(ticker), hours)
}

func QualityAnalyticsKey(hours, threshold int) string {
	return fmt.Sprintf("posts:analytics:%dh:%d", hours, threshold)
}

func LatestPriceKey(ticker string) string {
	return fmt.Sprintf("stocks:latest:%s", strings.ToUpper(ticker))
}

func PriceRangeKey(ticker string, days int) string {
	return fmt.Sprintf("stocks:prices:%s:%dd", strings.ToUpper(ticker), days)
}
