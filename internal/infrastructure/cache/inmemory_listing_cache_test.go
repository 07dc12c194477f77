package cache

import (
	"context"
	"testing"
	"time"

	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleViews() []catalogapp.ProductView {
	return []catalogapp.ProductView{
		{ID: 1, Type: catalog.VariantCrop, Name: "Wheat"},
		{ID: 1, Type: catalog.VariantItem, Name: "Eggs"},
	}
}

func TestInMemoryListingCache_GetSet(t *testing.T) {
	c := NewInMemoryListingCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		views, gen, ok, err := c.Get(ctx, "all:")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, views)
		assert.Zero(t, gen)
	})

	t.Run("hit after set", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, 0, "all:", sampleViews()))

		views, _, ok, err := c.Get(ctx, "all:")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sampleViews(), views)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		views, _, _, _ := c.Get(ctx, "all:")
		views[0].Name = "changed"

		again, _, _, _ := c.Get(ctx, "all:")
		assert.Equal(t, "Wheat", again[0].Name)
	})

	t.Run("empty listing is still a hit", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, 0, "farm:9", []catalogapp.ProductView{}))

		views, _, ok, err := c.Get(ctx, "farm:9")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, views)
	})
}

func TestInMemoryListingCache_Invalidate(t *testing.T) {
	c := NewInMemoryListingCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, "all:", sampleViews()))
	require.NoError(t, c.Set(ctx, 0, "farm:1", sampleViews()))
	require.NoError(t, c.Invalidate(ctx))

	_, gen, ok, err := c.Get(ctx, "all:")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
	assert.Zero(t, c.Size())
}

func TestInMemoryListingCache_StaleSetAfterInvalidate(t *testing.T) {
	c := NewInMemoryListingCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	_, gen, ok, err := c.Get(ctx, "all:")
	require.NoError(t, err)
	require.False(t, ok)

	// a write lands between the miss and the store
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, gen, "all:", sampleViews()))

	_, current, ok, err := c.Get(ctx, "all:")
	require.NoError(t, err)
	assert.False(t, ok, "listing read before the invalidation must not be cached")
	assert.Equal(t, gen+1, current)
	assert.Zero(t, c.Size())

	require.NoError(t, c.Set(ctx, current, "all:", sampleViews()))
	_, _, ok, err = c.Get(ctx, "all:")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryListingCache_Expiry(t *testing.T) {
	c := NewInMemoryListingCache(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, "all:", sampleViews()))
	time.Sleep(20 * time.Millisecond)

	_, _, ok, err := c.Get(ctx, "all:")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should miss")

	c.cleanup()
	assert.Zero(t, c.Size())
}

func TestInMemoryListingCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryListingCache(time.Minute)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
