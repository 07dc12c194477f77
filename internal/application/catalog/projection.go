package catalog

import (
	"time"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FarmSummary is the short farm block embedded in product views.
// It never includes owner details.
type FarmSummary struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

// CategorySummary is the category block embedded in crop views
type CategorySummary struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CropFields are present only on crop views
type CropFields struct {
	Category       *CategorySummary `json:"category"`
	PredictedYield *float64         `json:"predicted_yield"`
}

// EquipmentFields are present on item and machinery views
type EquipmentFields struct {
	IsNew bool `json:"is_new"`
}

// MachineryFields are present only on machinery views
type MachineryFields struct {
	Producer *string `json:"producer"`
}

// ProductView is the uniform external record for any variant. Type is the
// discriminator; the embedded variant blocks are nil for other variants and
// therefore absent from the JSON.
type ProductView struct {
	ID          uint64           `json:"id"`
	Type        catalog.Variant  `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Farm        *FarmSummary     `json:"farm"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock"`
	InStock     bool             `json:"in_stock"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	*CropFields
	*EquipmentFields
	*MachineryFields
}

// Lookups carries the farms and categories referenced by a batch of
// products so a listing is projected without per-row queries.
type Lookups struct {
	Farms      map[uint64]*catalog.Farm
	Categories map[uint64]*catalog.CropCategory
}

// Project renders p as a ProductView. Values outside the three known
// variants fail with UNSUPPORTED_VARIANT.
func Project(p catalog.Product, lk Lookups) (ProductView, error) {
	var view ProductView

	switch v := p.(type) {
	case *catalog.Crop:
		view = baseView(&v.ProductBase, catalog.VariantCrop, lk)
		view.CropFields = &CropFields{PredictedYield: v.PredictedYield}
		if c, ok := lk.Categories[v.CategoryID]; ok {
			view.CropFields.Category = &CategorySummary{ID: c.ID, Name: c.Name}
		}
	case *catalog.Item:
		view = baseView(&v.ProductBase, catalog.VariantItem, lk)
		view.EquipmentFields = &EquipmentFields{IsNew: v.IsNew}
	case *catalog.Machinery:
		view = baseView(&v.ProductBase, catalog.VariantMachinery, lk)
		view.EquipmentFields = &EquipmentFields{IsNew: v.IsNew}
		view.MachineryFields = &MachineryFields{Producer: v.Producer}
	default:
		return ProductView{}, shared.NewDomainErrorf("UNSUPPORTED_VARIANT", "Unsupported product type %T", p)
	}
	return view, nil
}

// ProjectAll projects every product, stopping at the first failure
func ProjectAll(products []catalog.Product, lk Lookups) ([]ProductView, error) {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		v, err := Project(p, lk)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func baseView(b *catalog.ProductBase, v catalog.Variant, lk Lookups) ProductView {
	view := ProductView{
		ID:          b.ID,
		Type:        v,
		Name:        b.Name,
		Description: b.Description,
		Image:       b.Image,
		Price:       b.Price,
		Stock:       b.Stock,
		InStock:     b.InStock(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if f, ok := lk.Farms[b.FarmID]; ok {
		view.Farm = &FarmSummary{ID: f.ID, Name: f.Name, Description: f.Description, Address: f.Address}
	}
	return view
}
