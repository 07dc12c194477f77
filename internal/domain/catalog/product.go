package catalog

import (
	"strings"
	"time"

	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is implemented by *Crop, *Item and *Machinery only.
// The unexported method keeps the set closed.
type Product interface {
	Variant() Variant
	Base() *ProductBase
	sealed()
}

// ProductBase holds the fields every variant shares
type ProductBase struct {
	ID          uint64
	Name        string
	Description string
	Image       string
	Price       *decimal.Decimal
	Stock       int
	FarmID      uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Base returns the shared fields
func (b *ProductBase) Base() *ProductBase {
	return b
}

// InStock is derived from stock and never stored
func (b *ProductBase) InStock() bool {
	return b.Stock > 0
}

// GetFarmID returns the owning farm
func (b *ProductBase) GetFarmID() uint64 {
	return b.FarmID
}

// Rename changes the product name
func (b *ProductBase) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.touch()
	return nil
}

// SetDescription sets the free-text description
func (b *ProductBase) SetDescription(description string) {
	b.Description = description
	b.touch()
}

// SetImage sets the image storage key
func (b *ProductBase) SetImage(image string) {
	b.Image = image
	b.touch()
}

// SetPrice sets or clears the price
func (b *ProductBase) SetPrice(price *decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	b.Price = price
	b.touch()
	return nil
}

// SetStock sets the stock level
func (b *ProductBase) SetStock(stock int) error {
	if err := validateStock(stock); err != nil {
		return err
	}
	b.Stock = stock
	b.touch()
	return nil
}

func (b *ProductBase) touch() {
	b.UpdatedAt = time.Now()
}

// Crop is a harvested product belonging to a category
type Crop struct {
	ProductBase
	CategoryID     uint64
	PredictedYield *float64
}

// Item is a general farm good
type Item struct {
	ProductBase
	IsNew bool
}

// Machinery is farm equipment
type Machinery struct {
	ProductBase
	IsNew    bool
	Producer *string
}

func (*Crop) Variant() Variant      { return VariantCrop }
func (*Item) Variant() Variant      { return VariantItem }
func (*Machinery) Variant() Variant { return VariantMachinery }

func (*Crop) sealed()      {}
func (*Item) sealed()      {}
func (*Machinery) sealed() {}

// RefOf returns the polymorphic reference for p
func RefOf(p Product) ProductRef {
	return ProductRef{Variant: p.Variant(), ID: p.Base().ID}
}

// ProductInput carries the shared fields for constructors
type ProductInput struct {
	Name        string
	Description string
	Image       string
	Price       *decimal.Decimal
	Stock       int
	FarmID      uint64
}

func newProductBase(in ProductInput) (ProductBase, error) {
	if err := validateProductName(in.Name); err != nil {
		return ProductBase{}, err
	}
	if err := validatePrice(in.Price); err != nil {
		return ProductBase{}, err
	}
	if err := validateStock(in.Stock); err != nil {
		return ProductBase{}, err
	}
	if in.FarmID == 0 {
		return ProductBase{}, shared.NewDomainError("INVALID_FARM", "Product must belong to a farm")
	}
	now := time.Now()
	return ProductBase{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Stock:       in.Stock,
		FarmID:      in.FarmID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewCrop creates a crop in the given category
func NewCrop(in ProductInput, categoryID uint64, predictedYield *float64) (*Crop, error) {
	base, err := newProductBase(in)
	if err != nil {
		return nil, err
	}
	if categoryID == 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Crop must have a category")
	}
	return &Crop{ProductBase: base, CategoryID: categoryID, PredictedYield: predictedYield}, nil
}

// NewItem creates an item; items start as new
func NewItem(in ProductInput) (*Item, error) {
	base, err := newProductBase(in)
	if err != nil {
		return nil, err
	}
	return &Item{ProductBase: base, IsNew: true}, nil
}

// NewMachinery creates a machine; machines start as new
func NewMachinery(in ProductInput, producer *string) (*Machinery, error) {
	base, err := newProductBase(in)
	if err != nil {
		return nil, err
	}
	return &Machinery{ProductBase: base, IsNew: true, Producer: producer}, nil
}

// SetCategory moves a crop to another category
func (c *Crop) SetCategory(categoryID uint64) error {
	if categoryID == 0 {
		return shared.NewDomainError("INVALID_CATEGORY", "Crop must have a category")
	}
	c.CategoryID = categoryID
	c.touch()
	return nil
}

// SetPredictedYield sets or clears the predicted yield
func (c *Crop) SetPredictedYield(y *float64) error {
	if y != nil && *y < 0 {
		return shared.NewDomainError("INVALID_YIELD", "Predicted yield cannot be negative")
	}
	c.PredictedYield = y
	c.touch()
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validatePrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return nil
}
