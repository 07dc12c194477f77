package catalog

import (
	"time"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a product of any variant. Variant-specific
// fields are ignored for the other variants.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	Image       string           `json:"image" binding:"max=500"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock" binding:"min=0"`
	FarmID      uint64           `json:"farm_id" binding:"required"`

	CategoryID     uint64   `json:"category_id"`
	PredictedYield *float64 `json:"predicted_yield"`
	IsNew          *bool    `json:"is_new"`
	Producer       *string  `json:"producer" binding:"omitempty,max=255"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
// ClearPrice unsets the price.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Image       *string          `json:"image" binding:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price"`
	ClearPrice  bool             `json:"clear_price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`

	CategoryID     *uint64  `json:"category_id"`
	PredictedYield *float64 `json:"predicted_yield"`
	IsNew          *bool    `json:"is_new"`
	Producer       *string  `json:"producer" binding:"omitempty,max=255"`
}

// CreateFarmRequest creates a farm owned by the caller
type CreateFarmRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
	Address     string `json:"address" binding:"required,min=1,max=500"`
	Image       string `json:"image" binding:"max=500"`
}

// UpdateFarmRequest replaces a farm's descriptive fields
type UpdateFarmRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"required,min=1,max=5000"`
	Address     string  `json:"address" binding:"required,min=1,max=500"`
	Image       *string `json:"image" binding:"omitempty,max=500"`
}

// OwnerSummary is the owner block on farm detail
type OwnerSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// FarmResponse is a farm in list responses
type FarmResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Image       string    `json:"image"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FarmDetailResponse adds the owner and the farm's products as labels
type FarmDetailResponse struct {
	FarmResponse
	Owner    *OwnerSummary `json:"owner"`
	Crops    []string      `json:"crops"`
	Items    []string      `json:"items"`
	Machines []string      `json:"machines"`
}

// ToFarmResponse converts a domain farm
func ToFarmResponse(f *catalog.Farm) FarmResponse {
	return FarmResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Address:     f.Address,
		Image:       f.Image,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// CategoryResponse is a crop category in responses
type CategoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.CropCategory) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// ImageUploadRequest asks for a presigned upload URL for a farm or product image
type ImageUploadRequest struct {
	Target      string `json:"target" binding:"required,oneof=farm crop item machinery"`
	ID          uint64 `json:"id" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned URL and the key to store as image
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}
