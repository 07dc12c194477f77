package ordering

import (
	"errors"
	"testing"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cropLine(id uint64, qty int) Line {
	return Line{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: id}, Quantity: qty}
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.False(t, OrderStatus("SHIPPED").IsValid())

	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending order with items", func(t *testing.T) {
		o, err := NewOrder(userID, []Line{cropLine(1, 4), {Product: catalog.ProductRef{Variant: catalog.VariantItem, ID: 1}, Quantity: 1}})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, userID, o.GetOwnerID())
		require.Len(t, o.Items, 2)
		for _, it := range o.Items {
			assert.Equal(t, o.ID, it.OrderID)
			assert.NotEqual(t, uuid.Nil, it.ID)
		}
		assert.Equal(t, catalog.VariantItem, o.Items[1].Product.Variant)
		assert.False(t, o.CreatedAt.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -3} {
			_, err := NewOrder(userID, []Line{cropLine(1, 1), cropLine(2, q)})
			assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
		}
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := NewOrder(userID, nil)
		require.Error(t, err)
		assert.Equal(t, "NO_ITEMS", err.(*shared.DomainError).Code)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, []Line{cropLine(1, 1)})
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}

func TestOrder_Transitions(t *testing.T) {
	o, err := NewOrder(uuid.New(), []Line{cropLine(1, 1)})
	require.NoError(t, err)

	require.NoError(t, o.Confirm())
	assert.Equal(t, OrderStatusConfirmed, o.Status)

	err = o.Confirm()
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, o.Cancel())
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.Error(t, o.Cancel())
}

func TestOrderItem_Subtotal(t *testing.T) {
	price := decimal.RequireFromString("2.5")
	crop := &catalog.Crop{ProductBase: catalog.ProductBase{ID: 1, Price: &price}}
	line := OrderItem{Quantity: 4, Product: catalog.RefOf(crop)}

	sub, err := line.Subtotal(crop)
	require.NoError(t, err)
	assert.True(t, sub.Equal(decimal.RequireFromString("10")))

	newPrice := decimal.RequireFromString("3.0")
	crop.Price = &newPrice
	sub, err = line.Subtotal(crop)
	require.NoError(t, err)
	assert.True(t, sub.Equal(decimal.RequireFromString("12")))
	assert.Equal(t, 4, line.Quantity)

	crop.Price = nil
	_, err = line.Subtotal(crop)
	assert.True(t, errors.Is(err, shared.ErrMissingPrice))
}
