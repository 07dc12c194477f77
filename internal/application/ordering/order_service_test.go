package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agromarket/backend/internal/application/access"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/ordering"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository implements ordering.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryStores are map-backed variant stores
type memoryStores struct {
	crops     map[uint64]*catalog.Crop
	items     map[uint64]*catalog.Item
	machinery map[uint64]*catalog.Machinery
}

func newMemoryStores() *memoryStores {
	return &memoryStores{
		crops:     map[uint64]*catalog.Crop{},
		items:     map[uint64]*catalog.Item{},
		machinery: map[uint64]*catalog.Machinery{},
	}
}

type cropStore struct{ m map[uint64]*catalog.Crop }
type itemStore struct{ m map[uint64]*catalog.Item }
type machineryStore struct{ m map[uint64]*catalog.Machinery }

func (s cropStore) FindByID(_ context.Context, id uint64) (*catalog.Crop, error) {
	if c, ok := s.m[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}
func (s cropStore) FindAll(context.Context, catalog.ProductFilter) ([]catalog.Crop, error) {
	return nil, nil
}
func (s cropStore) Save(_ context.Context, c *catalog.Crop) error { s.m[c.ID] = c; return nil }
func (s cropStore) Delete(_ context.Context, id uint64) error     { delete(s.m, id); return nil }

func (s itemStore) FindByID(_ context.Context, id uint64) (*catalog.Item, error) {
	if c, ok := s.m[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}
func (s itemStore) FindAll(context.Context, catalog.ProductFilter) ([]catalog.Item, error) {
	return nil, nil
}
func (s itemStore) Save(_ context.Context, c *catalog.Item) error { s.m[c.ID] = c; return nil }
func (s itemStore) Delete(_ context.Context, id uint64) error     { delete(s.m, id); return nil }

func (s machineryStore) FindByID(_ context.Context, id uint64) (*catalog.Machinery, error) {
	if c, ok := s.m[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}
func (s machineryStore) FindAll(context.Context, catalog.ProductFilter) ([]catalog.Machinery, error) {
	return nil, nil
}
func (s machineryStore) Save(_ context.Context, c *catalog.Machinery) error { s.m[c.ID] = c; return nil }
func (s machineryStore) Delete(_ context.Context, id uint64) error          { delete(s.m, id); return nil }

func (m *memoryStores) stores() catalog.ProductStores {
	return catalog.ProductStores{
		Crops:     cropStore{m.crops},
		Items:     itemStore{m.items},
		Machinery: machineryStore{m.machinery},
	}
}

// fakeUnitOfWork runs fn directly against the given repositories and
// counts commits and rollbacks
type fakeUnitOfWork struct {
	repos     ordering.TxRepositories
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(ordering.TxRepositories) error) error {
	if err := fn(u.repos); err != nil {
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type orderFixture struct {
	catalog *memoryStores
	orders  *MockOrderRepository
	uow     *fakeUnitOfWork
	service *OrderService
	buyer   *access.Actor
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		catalog: newMemoryStores(),
		orders:  new(MockOrderRepository),
		buyer:   &access.Actor{UserID: uuid.New()},
	}
	f.uow = &fakeUnitOfWork{repos: ordering.TxRepositories{Products: f.catalog.stores(), Orders: f.orders}}
	f.service = NewOrderService(f.uow, f.orders, f.catalog.stores(), nil)
	return f
}

func priceOf(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func line(tag string, id uint64, qty string) CreateOrderItemRequest {
	return CreateOrderItemRequest{Quantity: json.Number(qty), ContentType: tag, ObjectID: id}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("subtotal follows the live price", func(t *testing.T) {
		f := newOrderFixture()
		crop := &catalog.Crop{ProductBase: catalog.ProductBase{ID: 1, Name: "Wheat", Price: priceOf("2.5"), Stock: 10, FarmID: 1}, CategoryID: 1}
		f.catalog.crops[1] = crop

		var saved *ordering.Order
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*ordering.Order) }).
			Return(nil)

		resp, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{line("crop", 1, "4")}})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "10", resp.Items[0].ItemSubtotal.String())
		assert.Equal(t, catalog.VariantCrop, resp.Items[0].Product.Type)
		assert.Equal(t, 1, f.uow.commits)

		crop.Price = priceOf("3.0")
		f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, saved.ID).Return(saved, nil)

		again, err := f.service.Get(ctx, f.buyer, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "12", again.Items[0].ItemSubtotal.String())
		assert.Equal(t, 4, again.Items[0].Quantity)
		assert.Equal(t, "12", again.Total.String())
		assert.True(t, again.Complete)
	})

	t.Run("unknown variant creates nothing", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{line("vehicle", 1, "1")}})
		assert.True(t, errors.Is(err, shared.ErrUnknownVariant))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Equal(t, 0, f.uow.commits)
	})

	t.Run("missing product on line 2 of 3 aborts the whole order", func(t *testing.T) {
		f := newOrderFixture()
		f.catalog.crops[1] = &catalog.Crop{ProductBase: catalog.ProductBase{ID: 1, Price: priceOf("1")}}
		f.catalog.machinery[1] = &catalog.Machinery{ProductBase: catalog.ProductBase{ID: 1, Price: priceOf("1")}}

		_, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{
			line("crop", 1, "1"),
			line("item", 77, "1"),
			line("machinery", 1, "1"),
		}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrProductNotFound))
		assert.Contains(t, err.Error(), "item")
		assert.Contains(t, err.Error(), "77")
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Equal(t, 1, f.uow.rollbacks)
	})

	t.Run("invalid quantities", func(t *testing.T) {
		f := newOrderFixture()
		f.catalog.items[1] = &catalog.Item{ProductBase: catalog.ProductBase{ID: 1}}
		for _, q := range []string{"0", "-2", "1.5", "3000000000"} {
			_, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{line("item", 1, q)}})
			assert.True(t, errors.Is(err, shared.ErrInvalidQuantity), q)
		}
		assert.Equal(t, 0, f.uow.commits)
	})

	t.Run("tags are checked before quantities", func(t *testing.T) {
		f := newOrderFixture()
		f.catalog.crops[1] = &catalog.Crop{ProductBase: catalog.ProductBase{ID: 1, Price: priceOf("1")}}

		_, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{
			line("crop", 1, "0"),
			line("vehicle", 1, "1"),
		}})
		assert.True(t, errors.Is(err, shared.ErrUnknownVariant))
		assert.False(t, errors.Is(err, shared.ErrInvalidQuantity))
		assert.Equal(t, 0, f.uow.commits)
	})

	t.Run("blank tag and zero id", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{line("", 0, "1")}})
		assert.True(t, errors.Is(err, shared.ErrUnknownVariant))

		_, err = f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{line("crop", 0, "1")}})
		assert.True(t, errors.Is(err, shared.ErrProductNotFound))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.Create(ctx, nil, CreateOrderRequest{Items: []CreateOrderItemRequest{line("crop", 1, "1")}})
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("ids are per variant", func(t *testing.T) {
		f := newOrderFixture()
		f.catalog.crops[5] = &catalog.Crop{ProductBase: catalog.ProductBase{ID: 5, Name: "Oats", Price: priceOf("1")}}
		f.catalog.items[5] = &catalog.Item{ProductBase: catalog.ProductBase{ID: 5, Name: "Bucket", Price: priceOf("2")}}
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Create(ctx, f.buyer, CreateOrderRequest{Items: []CreateOrderItemRequest{
			line("crop", 5, "1"),
			line("item", 5, "1"),
		}})
		require.NoError(t, err)
		assert.Equal(t, "Oats", resp.Items[0].Product.Name)
		assert.Equal(t, "Bucket", resp.Items[1].Product.Name)
		assert.Equal(t, "3", resp.Total.String())
	})
}

func TestOrderService_Render(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.catalog.crops[1] = &catalog.Crop{ProductBase: catalog.ProductBase{ID: 1, Name: "Wheat", Price: priceOf("2")}}
	f.catalog.items[2] = &catalog.Item{ProductBase: catalog.ProductBase{ID: 2, Name: "Crate"}}

	order, err := ordering.NewOrder(f.buyer.UserID, []ordering.Line{
		{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: 1}, Quantity: 3},
		{Product: catalog.ProductRef{Variant: catalog.VariantItem, ID: 2}, Quantity: 1},
		{Product: catalog.ProductRef{Variant: catalog.VariantMachinery, ID: 9}, Quantity: 1},
	})
	require.NoError(t, err)
	f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, order.ID).Return(order, nil)

	resp, err := f.service.Get(ctx, f.buyer, order.ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)

	assert.Equal(t, "6", resp.Items[0].ItemSubtotal.String())
	assert.Nil(t, resp.Items[0].Error)

	assert.Nil(t, resp.Items[1].ItemSubtotal)
	require.NotNil(t, resp.Items[1].Error)
	assert.Equal(t, "MISSING_PRICE", resp.Items[1].Error.Code)
	assert.Equal(t, "Crate", resp.Items[1].Product.Name)

	assert.Nil(t, resp.Items[2].Product)
	assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Items[2].Error.Code)

	assert.Equal(t, "6", resp.Total.String())
	assert.False(t, resp.Complete)
}

func TestOrderService_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("another user's order is not found", func(t *testing.T) {
		f := newOrderFixture()
		id := uuid.New()
		f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Get(ctx, f.buyer, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("list is scoped to the actor", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindAllForUser", ctx, f.buyer.UserID).Return([]ordering.Order{}, nil)

		out, err := f.service.List(ctx, f.buyer)
		require.NoError(t, err)
		assert.Empty(t, out)
		f.orders.AssertExpectations(t)
	})
}

func TestOrderService_StatusChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("buyer cancels own order", func(t *testing.T) {
		f := newOrderFixture()
		order, _ := ordering.NewOrder(f.buyer.UserID, []ordering.Line{{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: 1}, Quantity: 1}})
		f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, order.ID).Return(order, nil)
		f.orders.On("UpdateStatus", ctx, order).Return(nil)

		resp, err := f.service.Cancel(ctx, f.buyer, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("staff confirms any order", func(t *testing.T) {
		f := newOrderFixture()
		order, _ := ordering.NewOrder(uuid.New(), []ordering.Line{{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: 1}, Quantity: 1}})
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("UpdateStatus", ctx, order).Return(nil)

		resp, err := f.service.Confirm(ctx, &access.Actor{UserID: uuid.New(), IsStaff: true}, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", resp.Status)
	})

	t.Run("cancelled order cannot be confirmed", func(t *testing.T) {
		f := newOrderFixture()
		order, _ := ordering.NewOrder(f.buyer.UserID, []ordering.Line{{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: 1}, Quantity: 1}})
		order.Status = ordering.OrderStatusCancelled
		f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, order.ID).Return(order, nil)

		_, err := f.service.Confirm(ctx, f.buyer, order.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("delete removes order", func(t *testing.T) {
		f := newOrderFixture()
		order, _ := ordering.NewOrder(f.buyer.UserID, []ordering.Line{{Product: catalog.ProductRef{Variant: catalog.VariantCrop, ID: 1}, Quantity: 1}})
		f.orders.On("FindByIDForUser", ctx, f.buyer.UserID, order.ID).Return(order, nil)
		f.orders.On("Delete", ctx, order.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, f.buyer, order.ID))
		f.orders.AssertExpectations(t)
	})
}
