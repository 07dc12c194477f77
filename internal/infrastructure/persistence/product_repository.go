package persistence

import (
	"context"
	"strings"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/agromarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// NewProductStores builds the three variant repositories on db, which may
// be a transaction
func NewProductStores(db *gorm.DB) catalog.ProductStores {
	return catalog.ProductStores{
		Crops:     NewGormCropRepository(db),
		Items:     NewGormItemRepository(db),
		Machinery: NewGormMachineryRepository(db),
	}
}

// productQuery applies a listing filter. Results are ordered by name with
// id as a tie breaker so listings are stable.
func productQuery(db *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	q := db
	if filter.FarmID != nil {
		q = q.Where("farm_id = ?", *filter.FarmID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return q.Order("name ASC, id ASC")
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint64) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCropRepository implements catalog.CropRepository
type GormCropRepository struct {
	db *gorm.DB
}

// NewGormCropRepository creates a new GormCropRepository
func NewGormCropRepository(db *gorm.DB) *GormCropRepository {
	return &GormCropRepository{db: db}
}

// FindByID finds a crop by ID
func (r *GormCropRepository) FindByID(ctx context.Context, id uint64) (*catalog.Crop, error) {
	var model models.CropModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists crops matching filter
func (r *GormCropRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Crop, error) {
	var rows []models.CropModel
	if err := productQuery(r.db.WithContext(ctx), filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Crop, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates a crop
func (r *GormCropRepository) Save(ctx context.Context, crop *catalog.Crop) error {
	model := models.CropModelFromDomain(crop)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	crop.ID = model.ID
	return nil
}

// Delete removes a crop
func (r *GormCropRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, &models.CropModel{}, id)
}

// GormItemRepository implements catalog.ItemRepository
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uint64) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists items matching filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Item, error) {
	var rows []models.ItemModel
	if err := productQuery(r.db.WithContext(ctx), filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Item, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	item.ID = model.ID
	return nil
}

// Delete removes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, &models.ItemModel{}, id)
}

// GormMachineryRepository implements catalog.MachineryRepository
type GormMachineryRepository struct {
	db *gorm.DB
}

// NewGormMachineryRepository creates a new GormMachineryRepository
func NewGormMachineryRepository(db *gorm.DB) *GormMachineryRepository {
	return &GormMachineryRepository{db: db}
}

// FindByID finds a machine by ID
func (r *GormMachineryRepository) FindByID(ctx context.Context, id uint64) (*catalog.Machinery, error) {
	var model models.MachineryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists machinery matching filter
func (r *GormMachineryRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Machinery, error) {
	var rows []models.MachineryModel
	if err := productQuery(r.db.WithContext(ctx), filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Machinery, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates a machine
func (r *GormMachineryRepository) Save(ctx context.Context, machine *catalog.Machinery) error {
	model := models.MachineryModelFromDomain(machine)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	machine.ID = model.ID
	return nil
}

// Delete removes a machine
func (r *GormMachineryRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, &models.MachineryModel{}, id)
}

var (
	_ catalog.CropRepository      = (*GormCropRepository)(nil)
	_ catalog.ItemRepository      = (*GormItemRepository)(nil)
	_ catalog.MachineryRepository = (*GormMachineryRepository)(nil)
)
