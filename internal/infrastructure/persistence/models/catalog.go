package models

import (
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FarmModel is the persistence model for catalog.Farm
type FarmModel struct {
	SerialModel
	Name        string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text;not null"`
	Address     string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(500);not null;default:''"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (FarmModel) TableName() string {
	return "farms"
}

// ToDomain converts the model to a domain farm
func (m *FarmModel) ToDomain() *catalog.Farm {
	return &catalog.Farm{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		Image:       m.Image,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FarmModelFromDomain creates a model from a domain farm
func FarmModelFromDomain(f *catalog.Farm) *FarmModel {
	return &FarmModel{
		SerialModel: SerialModel{ID: f.ID, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt},
		Name:        f.Name,
		Description: f.Description,
		Address:     f.Address,
		Image:       f.Image,
		OwnerID:     f.OwnerID,
	}
}

// CropCategoryModel is the persistence model for catalog.CropCategory
type CropCategoryModel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CropCategoryModel) TableName() string {
	return "crop_categories"
}

// ToDomain converts the model to a domain category
func (m *CropCategoryModel) ToDomain() *catalog.CropCategory {
	return &catalog.CropCategory{ID: m.ID, Name: m.Name}
}

// ProductColumns are the columns every variant table carries
type ProductColumns struct {
	SerialModel
	Name        string              `gorm:"type:varchar(255);not null;index"`
	Description string              `gorm:"type:text;not null;default:''"`
	Image       string              `gorm:"type:varchar(500);not null;default:''"`
	Price       decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Stock       int                 `gorm:"not null"`
	FarmID      uint64              `gorm:"not null;index"`
}

func (c *ProductColumns) toBase() catalog.ProductBase {
	b := catalog.ProductBase{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Stock:       c.Stock,
		FarmID:      c.FarmID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Price.Valid {
		p := c.Price.Decimal
		b.Price = &p
	}
	return b
}

func productColumnsFrom(b *catalog.ProductBase) ProductColumns {
	c := ProductColumns{
		SerialModel: SerialModel{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		Name:        b.Name,
		Description: b.Description,
		Image:       b.Image,
		Stock:       b.Stock,
		FarmID:      b.FarmID,
	}
	if b.Price != nil {
		c.Price = decimal.NewNullDecimal(*b.Price)
	}
	return c
}

// CropModel is the persistence model for catalog.Crop
type CropModel struct {
	ProductColumns
	CategoryID     uint64   `gorm:"not null;index"`
	PredictedYield *float64 `gorm:"type:double precision"`
}

// TableName returns the table name for GORM
func (CropModel) TableName() string {
	return "crops"
}

// ToDomain converts the model to a domain crop
func (m *CropModel) ToDomain() *catalog.Crop {
	return &catalog.Crop{
		ProductBase:    m.toBase(),
		CategoryID:     m.CategoryID,
		PredictedYield: m.PredictedYield,
	}
}

// CropModelFromDomain creates a model from a domain crop
func CropModelFromDomain(c *catalog.Crop) *CropModel {
	return &CropModel{
		ProductColumns: productColumnsFrom(&c.ProductBase),
		CategoryID:     c.CategoryID,
		PredictedYield: c.PredictedYield,
	}
}

// ItemModel is the persistence model for catalog.Item
type ItemModel struct {
	ProductColumns
	IsNew bool `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the model to a domain item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{ProductBase: m.toBase(), IsNew: m.IsNew}
}

// ItemModelFromDomain creates a model from a domain item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	return &ItemModel{ProductColumns: productColumnsFrom(&i.ProductBase), IsNew: i.IsNew}
}

// MachineryModel is the persistence model for catalog.Machinery
type MachineryModel struct {
	ProductColumns
	IsNew    bool    `gorm:"not null"`
	Producer *string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (MachineryModel) TableName() string {
	return "machinery"
}

// ToDomain converts the model to a domain machine
func (m *MachineryModel) ToDomain() *catalog.Machinery {
	return &catalog.Machinery{ProductBase: m.toBase(), IsNew: m.IsNew, Producer: m.Producer}
}

// MachineryModelFromDomain creates a model from a domain machine
func MachineryModelFromDomain(mc *catalog.Machinery) *MachineryModel {
	return &MachineryModel{
		ProductColumns: productColumnsFrom(&mc.ProductBase),
		IsNew:          mc.IsNew,
		Producer:       mc.Producer,
	}
}
