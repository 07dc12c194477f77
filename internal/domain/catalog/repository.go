package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter narrows variant listings. Results are always ordered by name.
type ProductFilter struct {
	FarmID *uint64
	Search string
}

// FarmRepository defines the interface for farm persistence
type FarmRepository interface {
	// FindByID finds a farm by ID
	FindByID(ctx context.Context, id uint64) (*Farm, error)

	// FindAll returns every farm ordered by name
	FindAll(ctx context.Context) ([]Farm, error)

	// FindByOwner returns the farms of one user
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Farm, error)

	// FindByIDs loads farms keyed by id, skipping unknown ids
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*Farm, error)

	// Save creates or updates a farm
	Save(ctx context.Context, farm *Farm) error

	// Delete removes the farm together with its crops, items and machinery
	Delete(ctx context.Context, id uint64) error
}

// CropCategoryRepository defines the interface for category persistence
type CropCategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (*CropCategory, error)
	FindAll(ctx context.Context) ([]CropCategory, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*CropCategory, error)
	Save(ctx context.Context, category *CropCategory) error

	// Delete fails with INVALID_STATE while crops still reference the category
	Delete(ctx context.Context, id uint64) error
}

// CropRepository is the crop variant store
type CropRepository interface {
	FindByID(ctx context.Context, id uint64) (*Crop, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Crop, error)
	Save(ctx context.Context, crop *Crop) error
	Delete(ctx context.Context, id uint64) error
}

// ItemRepository is the item variant store
type ItemRepository interface {
	FindByID(ctx context.Context, id uint64) (*Item, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uint64) error
}

// MachineryRepository is the machinery variant store
type MachineryRepository interface {
	FindByID(ctx context.Context, id uint64) (*Machinery, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Machinery, error)
	Save(ctx context.Context, machine *Machinery) error
	Delete(ctx context.Context, id uint64) error
}

// ProductStores bundles the three variant stores
type ProductStores struct {
	Crops     CropRepository
	Items     ItemRepository
	Machinery MachineryRepository
}
