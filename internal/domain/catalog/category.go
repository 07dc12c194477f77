package catalog

import (
	"strings"

	"github.com/agromarket/backend/internal/domain/shared"
)

// CropCategory groups crops, e.g. "Grain" or "Vegetables"
type CropCategory struct {
	ID   uint64
	Name string
}

// NewCropCategory creates a category
func NewCropCategory(name string) (*CropCategory, error) {
	c := &CropCategory{}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename changes the category name
func (c *CropCategory) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 255 characters")
	}
	c.Name = name
	return nil
}
