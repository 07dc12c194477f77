package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/redis/go-redis/v9"
)

// RedisListingCache stores product listings as JSON in Redis.
//
// Keys embed a generation number. Invalidate bumps the generation, so every
// older entry becomes unreachable at once and simply ages out via its TTL.
type RedisListingCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisListingCache creates a listing cache on an existing client
func NewRedisListingCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisListingCache {
	if keyPrefix == "" {
		keyPrefix = "agro:listing:"
	}
	return &RedisListingCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisListingCache) generationKey() string {
	return c.keyPrefix + "generation"
}

func (c *RedisListingCache) entryKey(generation int64, key string) string {
	return fmt.Sprintf("%s%d:%s", c.keyPrefix, generation, key)
}

func (c *RedisListingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read listing generation: %w", err)
	}
	return gen, nil
}

// Get returns a cached listing and the generation it was looked up under
func (c *RedisListingCache) Get(ctx context.Context, key string) ([]catalogapp.ProductView, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read listing: %w", err)
	}
	var views []catalogapp.ProductView
	if err := json.Unmarshal(raw, &views); err != nil {
		return nil, 0, false, fmt.Errorf("failed to decode listing: %w", err)
	}
	return views, gen, true, nil
}

// Set stores a listing under generation. After an Invalidate that key is
// never read again and the entry ages out via its TTL.
func (c *RedisListingCache) Set(ctx context.Context, generation int64, key string, views []catalogapp.ProductView) error {
	raw, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(generation, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store listing: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listings: %w", err)
	}
	return nil
}

var _ catalogapp.ListingCache = (*RedisListingCache)(nil)
