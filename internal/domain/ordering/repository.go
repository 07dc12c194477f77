package ordering

import (
	"context"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForUser finds an order owned by userID, including its items
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindByID finds an order regardless of owner
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAllForUser returns a user's orders, newest first
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// Save inserts the order and all of its items
	Save(ctx context.Context, order *Order) error

	// UpdateStatus persists a status change
	UpdateStatus(ctx context.Context, order *Order) error

	// Delete removes the order's items and then the order
	Delete(ctx context.Context, id uuid.UUID) error
}

// TxRepositories are repositories bound to one database transaction
type TxRepositories struct {
	Products catalog.ProductStores
	Orders   OrderRepository
}

// UnitOfWork runs fn inside a single transaction. Returning an error from fn
// rolls back every write made through the supplied repositories.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepositories) error) error
}
