package catalog

import (
	"context"
	"errors"

	"github.com/agromarket/backend/internal/application/access"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService serves listings and per-variant CRUD over the three
// product stores
type ProductService struct {
	stores     catalog.ProductStores
	resolver   *Resolver
	farms      catalog.FarmRepository
	categories catalog.CropCategoryRepository
	guard      *access.Guard
	cache      ListingCache
	logger     *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithListingCache sets the cache used for the product listings
func WithListingCache(c ListingCache) ProductServiceOption {
	return func(s *ProductService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(
	stores catalog.ProductStores,
	farms catalog.FarmRepository,
	categories catalog.CropCategoryRepository,
	guard *access.Guard,
	opts ...ProductServiceOption,
) *ProductService {
	s := &ProductService{
		stores:     stores,
		resolver:   NewResolver(stores),
		farms:      farms,
		categories: categories,
		guard:      guard,
		cache:      noopListingCache{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every product of every farm: crops, then items, then
// machinery, each sub-list in name order
func (s *ProductService) ListAll(ctx context.Context, search string) ([]ProductView, error) {
	return s.cachedListing(ctx, allProductsKey(search), catalog.ProductFilter{Search: search})
}

// ListForFarm returns every product of one farm
func (s *ProductService) ListForFarm(ctx context.Context, farmID uint64) ([]ProductView, error) {
	if _, err := s.farms.FindByID(ctx, farmID); err != nil {
		return nil, err
	}
	return s.cachedListing(ctx, farmProductsKey(farmID), catalog.ProductFilter{FarmID: &farmID})
}

func (s *ProductService) cachedListing(ctx context.Context, key string, filter catalog.ProductFilter) ([]ProductView, error) {
	cached, gen, hit, cacheErr := s.cache.Get(ctx, key)
	if cacheErr != nil {
		s.logger.Warn("Listing cache read failed", zap.String("key", key), zap.Error(cacheErr))
	} else if hit {
		return cached, nil
	}

	products, err := s.resolver.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	views, err := s.project(ctx, products)
	if err != nil {
		return nil, err
	}

	// without a generation from Get the listing cannot be stored safely
	if cacheErr != nil {
		return views, nil
	}
	if err := s.cache.Set(ctx, gen, key, views); err != nil {
		s.logger.Warn("Listing cache write failed", zap.String("key", key), zap.Error(err))
	}
	return views, nil
}

// List returns one variant's products
func (s *ProductService) List(ctx context.Context, tag string, filter catalog.ProductFilter) ([]ProductView, error) {
	v, err := catalog.ParseVariant(tag)
	if err != nil {
		return nil, err
	}
	products, err := s.resolver.ListVariant(ctx, v, filter)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, products)
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, tag string, id uint64) (*ProductView, error) {
	p, err := s.resolver.Resolve(ctx, tag, id)
	if err != nil {
		return nil, err
	}
	views, err := s.project(ctx, []catalog.Product{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create adds a product to a farm the actor owns (or any farm for staff)
func (s *ProductService) Create(ctx context.Context, actor *access.Actor, tag string, req CreateProductRequest) (*ProductView, error) {
	v, err := catalog.ParseVariant(tag)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, access.FarmRef(req.FarmID)); err != nil {
		return nil, err
	}

	in := catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
		FarmID:      req.FarmID,
	}

	var product catalog.Product
	switch v {
	case catalog.VariantCrop:
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		crop, err := catalog.NewCrop(in, req.CategoryID, req.PredictedYield)
		if err != nil {
			return nil, err
		}
		if err := s.stores.Crops.Save(ctx, crop); err != nil {
			return nil, err
		}
		product = crop
	case catalog.VariantItem:
		item, err := catalog.NewItem(in)
		if err != nil {
			return nil, err
		}
		if req.IsNew != nil {
			item.IsNew = *req.IsNew
		}
		if err := s.stores.Items.Save(ctx, item); err != nil {
			return nil, err
		}
		product = item
	case catalog.VariantMachinery:
		machine, err := catalog.NewMachinery(in, req.Producer)
		if err != nil {
			return nil, err
		}
		if req.IsNew != nil {
			machine.IsNew = *req.IsNew
		}
		if err := s.stores.Machinery.Save(ctx, machine); err != nil {
			return nil, err
		}
		product = machine
	}

	s.invalidate(ctx)
	s.logger.Info("Product created",
		zap.String("variant", v.String()),
		zap.Uint64("product_id", product.Base().ID),
		zap.Uint64("farm_id", req.FarmID),
	)
	return s.viewOf(ctx, product)
}

// Update applies a partial update; only the farm owner or staff may do so
func (s *ProductService) Update(ctx context.Context, actor *access.Actor, tag string, id uint64, req UpdateProductRequest) (*ProductView, error) {
	product, err := s.resolver.Resolve(ctx, tag, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, product); err != nil {
		return nil, err
	}
	if err := applyBaseUpdate(product.Base(), req); err != nil {
		return nil, err
	}

	switch p := product.(type) {
	case *catalog.Crop:
		if req.CategoryID != nil {
			if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
				return nil, err
			}
			if err := p.SetCategory(*req.CategoryID); err != nil {
				return nil, err
			}
		}
		if req.PredictedYield != nil {
			if err := p.SetPredictedYield(req.PredictedYield); err != nil {
				return nil, err
			}
		}
		err = s.stores.Crops.Save(ctx, p)
	case *catalog.Item:
		if req.IsNew != nil {
			p.IsNew = *req.IsNew
		}
		err = s.stores.Items.Save(ctx, p)
	case *catalog.Machinery:
		if req.IsNew != nil {
			p.IsNew = *req.IsNew
		}
		if req.Producer != nil {
			p.Producer = req.Producer
		}
		err = s.stores.Machinery.Save(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.viewOf(ctx, product)
}

// Delete removes a product; only the farm owner or staff may do so
func (s *ProductService) Delete(ctx context.Context, actor *access.Actor, tag string, id uint64) error {
	product, err := s.resolver.Resolve(ctx, tag, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, actor, product); err != nil {
		return err
	}

	switch product.Variant() {
	case catalog.VariantCrop:
		err = s.stores.Crops.Delete(ctx, id)
	case catalog.VariantItem:
		err = s.stores.Items.Delete(ctx, id)
	case catalog.VariantMachinery:
		err = s.stores.Machinery.Delete(ctx, id)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("variant", tag), zap.Uint64("product_id", id))
	return nil
}

func applyBaseUpdate(b *catalog.ProductBase, req UpdateProductRequest) error {
	if req.Name != nil {
		if err := b.Rename(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		b.SetDescription(*req.Description)
	}
	if req.Image != nil {
		b.SetImage(*req.Image)
	}
	if req.ClearPrice {
		if err := b.SetPrice(nil); err != nil {
			return err
		}
	} else if req.Price != nil {
		if err := b.SetPrice(req.Price); err != nil {
			return err
		}
	}
	if req.Stock != nil {
		if err := b.SetStock(*req.Stock); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, id uint64) error {
	if id == 0 {
		return shared.NewDomainError("INVALID_CATEGORY", "Crop must have a category")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) viewOf(ctx context.Context, p catalog.Product) (*ProductView, error) {
	views, err := s.project(ctx, []catalog.Product{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ProductService) project(ctx context.Context, products []catalog.Product) ([]ProductView, error) {
	lk, err := LoadLookups(ctx, s.farms, s.categories, products)
	if err != nil {
		return nil, err
	}
	return ProjectAll(products, lk)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Error(err))
	}
}

// LoadLookups batch-loads the farms and categories a set of products refers to
func LoadLookups(
	ctx context.Context,
	farms catalog.FarmRepository,
	categories catalog.CropCategoryRepository,
	products []catalog.Product,
) (Lookups, error) {
	farmIDs := make([]uint64, 0, len(products))
	var categoryIDs []uint64
	seenFarm := make(map[uint64]bool)
	seenCategory := make(map[uint64]bool)
	for _, p := range products {
		if id := p.Base().FarmID; !seenFarm[id] {
			seenFarm[id] = true
			farmIDs = append(farmIDs, id)
		}
		if c, ok := p.(*catalog.Crop); ok && !seenCategory[c.CategoryID] {
			seenCategory[c.CategoryID] = true
			categoryIDs = append(categoryIDs, c.CategoryID)
		}
	}

	lk := Lookups{
		Farms:      map[uint64]*catalog.Farm{},
		Categories: map[uint64]*catalog.CropCategory{},
	}
	var err error
	if len(farmIDs) > 0 {
		if lk.Farms, err = farms.FindByIDs(ctx, farmIDs); err != nil {
			return Lookups{}, err
		}
	}
	if len(categoryIDs) > 0 {
		if lk.Categories, err = categories.FindByIDs(ctx, categoryIDs); err != nil {
			return Lookups{}, err
		}
	}
	return lk, nil
}
