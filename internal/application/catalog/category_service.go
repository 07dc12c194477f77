package catalog

import (
	"context"

	"github.com/agromarket/backend/internal/application/access"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles crop category operations. Mutations are staff only.
type CategoryService struct {
	categoryRepo catalog.CropCategoryRepository
	cache        ListingCache
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CropCategoryRepository, cache ListingCache, logger *zap.Logger) *CategoryService {
	if cache == nil {
		cache = noopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

// List returns every category ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, id uint64) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, actor *access.Actor, req CategoryRequest) (*CategoryResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	c, err := catalog.NewCropCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Update renames a category. Crop views embed the name, so cached
// listings are dropped.
func (s *CategoryService) Update(ctx context.Context, actor *access.Actor, id uint64, req CategoryRequest) (*CategoryResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Uint64("category_id", id), zap.Error(err))
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Delete removes an unused category
func (s *CategoryService) Delete(ctx context.Context, actor *access.Actor, id uint64) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

func requireStaff(actor *access.Actor) error {
	if err := access.RequireActor(actor); err != nil {
		return err
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}
	return nil
}
