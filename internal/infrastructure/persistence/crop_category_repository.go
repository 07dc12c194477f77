package persistence

import (
	"context"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/agromarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCropCategoryRepository implements catalog.CropCategoryRepository
type GormCropCategoryRepository struct {
	db *gorm.DB
}

// NewGormCropCategoryRepository creates a new GormCropCategoryRepository
func NewGormCropCategoryRepository(db *gorm.DB) *GormCropCategoryRepository {
	return &GormCropCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCropCategoryRepository) FindByID(ctx context.Context, id uint64) (*catalog.CropCategory, error) {
	var model models.CropCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every category ordered by name
func (r *GormCropCategoryRepository) FindAll(ctx context.Context) ([]catalog.CropCategory, error) {
	var rows []models.CropCategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.CropCategory, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// FindByIDs loads categories keyed by id
func (r *GormCropCategoryRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*catalog.CropCategory, error) {
	out := make(map[uint64]*catalog.CropCategory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.CropCategoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a category
func (r *GormCropCategoryRepository) Save(ctx context.Context, category *catalog.CropCategory) error {
	model := &models.CropCategoryModel{ID: category.ID, Name: category.Name}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	category.ID = model.ID
	return nil
}

// Delete removes a category that no crop references
func (r *GormCropCategoryRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.CropModel{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return shared.NewDomainErrorf("INVALID_STATE", "Category %d is used by %d crops", id, inUse)
		}
		res := tx.Delete(&models.CropCategoryModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ catalog.CropCategoryRepository = (*GormCropCategoryRepository)(nil)
