package persistence

import (
	"context"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/agromarket/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFarmRepository implements catalog.FarmRepository using GORM
type GormFarmRepository struct {
	db *gorm.DB
}

// NewGormFarmRepository creates a new GormFarmRepository
func NewGormFarmRepository(db *gorm.DB) *GormFarmRepository {
	return &GormFarmRepository{db: db}
}

// FindByID finds a farm by ID
func (r *GormFarmRepository) FindByID(ctx context.Context, id uint64) (*catalog.Farm, error) {
	var model models.FarmModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every farm ordered by name
func (r *GormFarmRepository) FindAll(ctx context.Context) ([]catalog.Farm, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindByOwner returns the farms of one user
func (r *GormFarmRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]catalog.Farm, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *GormFarmRepository) find(q *gorm.DB) ([]catalog.Farm, error) {
	var rows []models.FarmModel
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	farms := make([]catalog.Farm, 0, len(rows))
	for i := range rows {
		farms = append(farms, *rows[i].ToDomain())
	}
	return farms, nil
}

// FindByIDs loads farms keyed by id, skipping unknown ids
func (r *GormFarmRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*catalog.Farm, error) {
	out := make(map[uint64]*catalog.Farm, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.FarmModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a farm. A new farm receives its id here.
func (r *GormFarmRepository) Save(ctx context.Context, farm *catalog.Farm) error {
	model := models.FarmModelFromDomain(farm)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	farm.ID = model.ID
	return nil
}

// Delete removes the farm's crops, items and machinery, then the farm, in
// one transaction. Order lines that referenced those products are left in
// place and render as PRODUCT_NOT_FOUND.
func (r *GormFarmRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.CropModel{}, &models.ItemModel{}, &models.MachineryModel{}} {
			if err := tx.Where("farm_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.FarmModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ catalog.FarmRepository = (*GormFarmRepository)(nil)
