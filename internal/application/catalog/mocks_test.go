package catalog

import (
	"context"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCropRepository implements catalog.CropRepository for testing
type MockCropRepository struct {
	mock.Mock
}

func (m *MockCropRepository) FindByID(ctx context.Context, id uint64) (*catalog.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Crop), args.Error(1)
}

func (m *MockCropRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Crop, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Crop), args.Error(1)
}

func (m *MockCropRepository) Save(ctx context.Context, crop *catalog.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemRepository implements catalog.ItemRepository for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uint64) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMachineryRepository implements catalog.MachineryRepository for testing
type MockMachineryRepository struct {
	mock.Mock
}

func (m *MockMachineryRepository) FindByID(ctx context.Context, id uint64) (*catalog.Machinery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Machinery), args.Error(1)
}

func (m *MockMachineryRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Machinery, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Machinery), args.Error(1)
}

func (m *MockMachineryRepository) Save(ctx context.Context, machine *catalog.Machinery) error {
	args := m.Called(ctx, machine)
	return args.Error(0)
}

func (m *MockMachineryRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFarmRepository implements catalog.FarmRepository for testing
type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) FindByID(ctx context.Context, id uint64) (*catalog.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Farm), args.Error(1)
}

func (m *MockFarmRepository) FindAll(ctx context.Context) ([]catalog.Farm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Farm), args.Error(1)
}

func (m *MockFarmRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]catalog.Farm, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Farm), args.Error(1)
}

func (m *MockFarmRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*catalog.Farm, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]*catalog.Farm), args.Error(1)
}

func (m *MockFarmRepository) Save(ctx context.Context, farm *catalog.Farm) error {
	args := m.Called(ctx, farm)
	return args.Error(0)
}

func (m *MockFarmRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository implements catalog.CropCategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint64) (*catalog.CropCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CropCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.CropCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CropCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*catalog.CropCategory, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]*catalog.CropCategory), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.CropCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*identity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockStores struct {
	crops     *MockCropRepository
	items     *MockItemRepository
	machinery *MockMachineryRepository
}

func newMockStores() *mockStores {
	return &mockStores{
		crops:     new(MockCropRepository),
		items:     new(MockItemRepository),
		machinery: new(MockMachineryRepository),
	}
}

func (m *mockStores) stores() catalog.ProductStores {
	return catalog.ProductStores{Crops: m.crops, Items: m.items, Machinery: m.machinery}
}

// memoryCache is a ListingCache backed by a map
type memoryCache struct {
	entries     map[string][]ProductView
	generation  int64
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]ProductView{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]ProductView, int64, bool, error) {
	v, ok := c.entries[key]
	return v, c.generation, ok, nil
}

func (c *memoryCache) Set(_ context.Context, generation int64, key string, views []ProductView) error {
	if generation != c.generation {
		return nil
	}
	c.entries[key] = views
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.entries = map[string][]ProductView{}
	c.generation++
	c.invalidated++
	return nil
}
