package cache

import (
	"context"
	"fmt"
	"time"

	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/agromarket/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ListingCacheFactory picks the listing cache implementation from configuration
type ListingCacheFactory struct {
	cfg                   config.CacheConfig
	client                redis.UniversalClient
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ListingCacheFactoryOption is a functional option for configuring the factory
type ListingCacheFactoryOption func(*ListingCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ListingCacheFactoryOption {
	return func(f *ListingCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ListingCacheFactoryOption {
	return func(f *ListingCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewListingCacheFactory creates a factory. client may be nil when Redis is
// not configured.
func NewListingCacheFactory(cfg config.CacheConfig, client redis.UniversalClient, opts ...ListingCacheFactoryOption) *ListingCacheFactory {
	f := &ListingCacheFactory{
		cfg:                   cfg,
		client:                client,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the listing cache to use, or nil when caching is disabled
func (f *ListingCacheFactory) Create(ctx context.Context) (catalogapp.ListingCache, error) {
	if !f.cfg.Enabled {
		f.logger.Info("Listing cache disabled")
		return nil, nil
	}

	err := f.ping(ctx)
	if err == nil {
		f.logger.Info("Using Redis listing cache", zap.Duration("ttl", f.cfg.ListingTTL))
		return NewRedisListingCache(f.client, f.cfg.KeyPrefix, f.cfg.ListingTTL), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for listing cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory listing cache. "+
		"Listings may be stale across instances until the TTL elapses.",
		zap.Error(err),
	)
	return NewInMemoryListingCache(f.cfg.ListingTTL), nil
}

func (f *ListingCacheFactory) ping(ctx context.Context) error {
	if f.client == nil {
		return fmt.Errorf("no redis client configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return f.client.Ping(ctx).Err()
}
