// Package access holds the acting identity and the owner-or-staff rule
// applied to farm-scoped and user-owned resources.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated caller
type Actor struct {
	UserID          uuid.UUID
	IsStaff         bool
	IsBusinessOwner bool
}

// FarmScoped is implemented by targets that belong to a farm
type FarmScoped interface {
	GetFarmID() uint64
}

// UserOwned is implemented by targets that belong directly to a user
type UserOwned interface {
	GetOwnerID() uuid.UUID
}

// FarmFinder loads the farm behind a farm-scoped target
type FarmFinder interface {
	FindByID(ctx context.Context, id uint64) (*catalog.Farm, error)
}

// Guard decides whether an actor may mutate a target
type Guard struct {
	farms FarmFinder
}

// NewGuard creates a Guard
func NewGuard(farms FarmFinder) *Guard {
	return &Guard{farms: farms}
}

// RequireActor fails with UNAUTHORIZED when there is no identity
func RequireActor(actor *Actor) error {
	if actor == nil || actor.UserID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	return nil
}

// Authorize allows staff, the owner of the target's farm, or the target's
// own owner. Everything else is FORBIDDEN.
func (g *Guard) Authorize(ctx context.Context, actor *Actor, target any) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.IsStaff {
		return nil
	}

	if scoped, ok := target.(FarmScoped); ok {
		farm, err := g.farms.FindByID(ctx, scoped.GetFarmID())
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrForbidden
			}
			return fmt.Errorf("load farm %d: %w", scoped.GetFarmID(), err)
		}
		if farm.OwnerID == actor.UserID {
			return nil
		}
		return shared.ErrForbidden
	}

	if owned, ok := target.(UserOwned); ok && owned.GetOwnerID() == actor.UserID {
		return nil
	}
	return shared.ErrForbidden
}

// FarmRef is a FarmScoped target for checks made before a product exists,
// such as adding a new product to a farm.
type FarmRef uint64

// GetFarmID implements FarmScoped
func (f FarmRef) GetFarmID() uint64 {
	return uint64(f)
}
