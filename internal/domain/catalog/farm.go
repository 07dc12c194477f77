package catalog

import (
	"strings"
	"time"

	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Farm owns products of every variant. Its product collections are not
// stored on the farm; they are queried by farm id.
type Farm struct {
	ID          uint64
	Name        string
	Description string
	Address     string
	Image       string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewFarm creates a farm owned by ownerID
func NewFarm(ownerID uuid.UUID, name, description, address string) (*Farm, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Farm must have an owner")
	}
	f := &Farm{OwnerID: ownerID}
	if err := f.Update(name, description, address); err != nil {
		return nil, err
	}
	f.CreatedAt = f.UpdatedAt
	return f, nil
}

// Update replaces the required descriptive fields
func (f *Farm) Update(name, description, address string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	address = strings.TrimSpace(address)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Farm name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Farm name cannot exceed 255 characters")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Farm description cannot be empty")
	}
	if address == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Farm address cannot be empty")
	}
	f.Name = name
	f.Description = description
	f.Address = address
	f.UpdatedAt = time.Now()
	return nil
}

// SetImage sets the image storage key
func (f *Farm) SetImage(image string) {
	f.Image = image
	f.UpdatedAt = time.Now()
}

// GetOwnerID returns the owning user
func (f *Farm) GetOwnerID() uuid.UUID {
	return f.OwnerID
}
