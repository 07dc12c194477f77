package catalog

import (
	"fmt"
	"strconv"

	"github.com/agromarket/backend/internal/domain/shared"
)

// Variant is the discriminator naming one of the three product kinds
type Variant string

const (
	VariantCrop      Variant = "crop"
	VariantItem      Variant = "item"
	VariantMachinery Variant = "machinery"
)

// Variants returns the closed variant set in listing order
func Variants() []Variant {
	return []Variant{VariantCrop, VariantItem, VariantMachinery}
}

// ParseVariant converts a tag into a Variant. Matching is case-sensitive.
func ParseVariant(tag string) (Variant, error) {
	switch v := Variant(tag); v {
	case VariantCrop, VariantItem, VariantMachinery:
		return v, nil
	}
	return "", shared.NewDomainErrorf("UNKNOWN_VARIANT", "Unknown product type %q", tag)
}

// String returns the canonical tag
func (v Variant) String() string {
	return string(v)
}

// ProductRef is a polymorphic reference to a product of any variant.
// IDs are only unique within a variant, so both halves are required.
type ProductRef struct {
	Variant Variant
	ID      uint64
}

// String renders the reference as tag#id
func (r ProductRef) String() string {
	return fmt.Sprintf("%s#%s", r.Variant, strconv.FormatUint(r.ID, 10))
}

// NotFound returns the PRODUCT_NOT_FOUND error echoing this reference
func (r ProductRef) NotFound() *shared.DomainError {
	return shared.NewDomainErrorf("PRODUCT_NOT_FOUND", "Product %s with id %d not found", r.Variant, r.ID)
}
