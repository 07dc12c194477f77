package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("each variant resolves from its own store with matching discriminator", func(t *testing.T) {
		ms := newMockStores()
		ms.crops.On("FindByID", ctx, uint64(5)).Return(&catalog.Crop{ProductBase: catalog.ProductBase{ID: 5}}, nil)
		ms.items.On("FindByID", ctx, uint64(5)).Return(&catalog.Item{ProductBase: catalog.ProductBase{ID: 5}}, nil)
		ms.machinery.On("FindByID", ctx, uint64(5)).Return(&catalog.Machinery{ProductBase: catalog.ProductBase{ID: 5}}, nil)
		r := NewResolver(ms.stores())

		for _, v := range catalog.Variants() {
			p, err := r.Resolve(ctx, v.String(), 5)
			require.NoError(t, err)
			assert.Equal(t, v, p.Variant())
			assert.Equal(t, uint64(5), p.Base().ID)
		}
		ms.crops.AssertNumberOfCalls(t, "FindByID", 1)
		ms.items.AssertNumberOfCalls(t, "FindByID", 1)
		ms.machinery.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("unknown tag fails without touching any store", func(t *testing.T) {
		ms := newMockStores()
		r := NewResolver(ms.stores())

		for _, tag := range []string{"vehicle", "Crop", ""} {
			_, err := r.Resolve(ctx, tag, 1)
			assert.True(t, errors.Is(err, shared.ErrUnknownVariant), tag)
		}
		ms.crops.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		ms.items.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		ms.machinery.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing id becomes PRODUCT_NOT_FOUND echoing tag and id", func(t *testing.T) {
		ms := newMockStores()
		ms.items.On("FindByID", ctx, uint64(42)).Return(nil, shared.ErrNotFound)
		r := NewResolver(ms.stores())

		_, err := r.Resolve(ctx, "item", 42)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrProductNotFound))
		assert.Contains(t, err.Error(), "item")
		assert.Contains(t, err.Error(), "42")
	})

	t.Run("storage failures are wrapped, not reported as not found", func(t *testing.T) {
		ms := newMockStores()
		dbErr := errors.New("connection reset")
		ms.machinery.On("FindByID", ctx, uint64(1)).Return(nil, dbErr)
		r := NewResolver(ms.stores())

		_, err := r.Resolve(ctx, "machinery", 1)
		assert.ErrorIs(t, err, dbErr)
		assert.False(t, errors.Is(err, shared.ErrProductNotFound))
	})

	t.Run("unknown variant in a stored reference", func(t *testing.T) {
		r := NewResolver(newMockStores().stores())
		_, err := r.ResolveRef(ctx, catalog.ProductRef{Variant: "vehicle", ID: 1})
		assert.True(t, errors.Is(err, shared.ErrUnknownVariant))
	})
}

func TestResolver_ListAll(t *testing.T) {
	ctx := context.Background()
	farmID := uint64(3)
	filter := catalog.ProductFilter{FarmID: &farmID}

	ms := newMockStores()
	ms.crops.On("FindAll", ctx, filter).Return([]catalog.Crop{
		{ProductBase: catalog.ProductBase{ID: 1, Name: "Barley"}},
		{ProductBase: catalog.ProductBase{ID: 2, Name: "Wheat"}},
	}, nil)
	ms.items.On("FindAll", ctx, filter).Return([]catalog.Item{
		{ProductBase: catalog.ProductBase{ID: 1, Name: "Apple box"}},
	}, nil)
	ms.machinery.On("FindAll", ctx, filter).Return([]catalog.Machinery{}, nil)

	all, err := NewResolver(ms.stores()).ListAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, catalog.VariantCrop, all[0].Variant())
	assert.Equal(t, "Barley", all[0].Base().Name)
	assert.Equal(t, catalog.VariantCrop, all[1].Variant())
	assert.Equal(t, catalog.VariantItem, all[2].Variant())
	assert.Equal(t, "Apple box", all[2].Base().Name)
}
