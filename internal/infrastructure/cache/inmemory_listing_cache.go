package cache

import (
	"context"
	"sync"
	"time"

	catalogapp "github.com/agromarket/backend/internal/application/catalog"
)

type listingEntry struct {
	views     []catalogapp.ProductView
	expiresAt time.Time
}

// InMemoryListingCache keeps listings in process memory. It suits
// single-instance deployments and tests; instances do not share entries.
type InMemoryListingCache struct {
	mu         sync.RWMutex
	entries    map[string]listingEntry
	generation int64
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryListingCache creates the cache and starts a background
// goroutine that evicts expired entries
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	c := &InMemoryListingCache{
		entries:  make(map[string]listingEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a cached listing that has not expired, together with the
// current generation
func (c *InMemoryListingCache) Get(_ context.Context, key string) ([]catalogapp.ProductView, int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, c.generation, false, nil
	}
	out := make([]catalogapp.ProductView, len(e.views))
	copy(out, e.views)
	return out, c.generation, true, nil
}

// Set stores a copy of views. A write for an older generation is dropped.
func (c *InMemoryListingCache) Set(_ context.Context, generation int64, key string, views []catalogapp.ProductView) error {
	stored := make([]catalogapp.ProductView, len(views))
	copy(stored, views)

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return nil
	}
	c.entries[key] = listingEntry{views: stored, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Invalidate drops every entry and starts a new generation
func (c *InMemoryListingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string]listingEntry)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryListingCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryListingCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryListingCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryListingCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ catalogapp.ListingCache = (*InMemoryListingCache)(nil)
