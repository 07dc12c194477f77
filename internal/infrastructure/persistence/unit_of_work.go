package persistence

import (
	"context"

	"github.com/agromarket/backend/internal/domain/ordering"
	"gorm.io/gorm"
)

// GormUnitOfWork runs order writes in one database transaction
type GormUnitOfWork struct {
	db     *gorm.DB
	orders *GormOrderRepository
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, orders: NewGormOrderRepository(db)}
}

// Do runs fn with repositories bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(repos ordering.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ordering.TxRepositories{
			Products: NewProductStores(tx),
			Orders:   u.orders.WithTx(tx),
		})
	})
}

var _ ordering.UnitOfWork = (*GormUnitOfWork)(nil)
