package ordering

import (
	"fmt"
	"time"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusCancelled
	}
	return false
}

// Line is one requested order line before persistence
type Line struct {
	Product  catalog.ProductRef
	Quantity int
}

// OrderItem is a persisted order line. It holds a polymorphic product
// reference, not a foreign key, and never stores a price.
type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Quantity int
	Product  catalog.ProductRef
}

// Subtotal is quantity times the product's current price. It is computed
// on every read and never stored, so a price change is visible on the next
// read of the same order. No price is snapshotted at purchase time.
func (i OrderItem) Subtotal(p catalog.Product) (decimal.Decimal, error) {
	price := p.Base().Price
	if price == nil {
		return decimal.Zero, shared.NewDomainErrorf("MISSING_PRICE", "Product %s has no price set", catalog.RefOf(p))
	}
	return price.Mul(decimal.NewFromInt(int64(i.Quantity))), nil
}

// Order is a user's purchase across any farms and variants
type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder creates a pending order. Every quantity must be positive.
func NewOrder(userID uuid.UUID, lines []Line) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Order must belong to a user")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	for i, l := range lines {
		if err := ValidateQuantity(l.Quantity); err != nil {
			return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Item %d: quantity must be a positive integer, got %d", i+1, l.Quantity)
		}
	}

	now := time.Now()
	o := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    OrderStatusPending,
		Items:     make([]OrderItem, 0, len(lines)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range lines {
		o.Items = append(o.Items, OrderItem{
			ID:       uuid.New(),
			OrderID:  o.ID,
			Quantity: l.Quantity,
			Product:  l.Product,
		})
	}
	return o, nil
}

// ValidateQuantity rejects non-positive quantities
func ValidateQuantity(q int) error {
	if q <= 0 {
		return shared.ErrInvalidQuantity
	}
	return nil
}

// Confirm moves a pending order to CONFIRMED
func (o *Order) Confirm() error {
	return o.transition(OrderStatusConfirmed)
}

// Cancel cancels a pending or confirmed order
func (o *Order) Cancel() error {
	return o.transition(OrderStatusCancelled)
}

func (o *Order) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// GetOwnerID returns the purchasing user
func (o *Order) GetOwnerID() uuid.UUID {
	return o.UserID
}
