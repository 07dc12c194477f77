package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/agromarket/backend/internal/application/access"
	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/ordering"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/agromarket/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService creates and reads orders.
//
// Reads re-resolve every line against the live catalog and are not locked
// against catalog writes: a subtotal read may race with a concurrent price
// update and report either price. Order creation is the only multi-step
// write and runs in a single transaction.
type OrderService struct {
	uow      ordering.UnitOfWork
	orders   ordering.OrderRepository
	resolver *catalogapp.Resolver
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	uow ordering.UnitOfWork,
	orders ordering.OrderRepository,
	stores catalog.ProductStores,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		uow:      uow,
		orders:   orders,
		resolver: catalogapp.NewResolver(stores),
		logger:   logger,
	}
}

// Create validates every line, then resolves and persists the order and all
// of its lines atomically. Any failing line aborts the whole order.
func (s *OrderService) Create(ctx context.Context, actor *access.Actor, req CreateOrderRequest) (resp *OrderResponse, err error) {
	if err := access.RequireActor(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create", attribute.Int("order.lines", len(req.Items)))
	defer func() { telemetry.EndSpan(span, err) }()

	// every tag is checked before any quantity
	lines := make([]ordering.Line, len(req.Items))
	for i, item := range req.Items {
		v, err := catalog.ParseVariant(item.ContentType)
		if err != nil {
			return nil, err
		}
		lines[i].Product = catalog.ProductRef{Variant: v, ID: item.ObjectID}
	}
	for i, item := range req.Items {
		qty, err := parseQuantity(item.Quantity)
		if err != nil {
			return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Item %d: quantity must be a positive integer, got %s", i+1, item.Quantity)
		}
		lines[i].Quantity = qty
	}

	order, err := ordering.NewOrder(actor.UserID, lines)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(repos ordering.TxRepositories) error {
		resolver := catalogapp.NewResolver(repos.Products)
		for _, line := range order.Items {
			if _, err := resolver.ResolveRef(ctx, line.Product); err != nil {
				return err
			}
		}
		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		s.logger.Warn("Order creation aborted",
			zap.String("user_id", actor.UserID.String()),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.Int("lines", len(order.Items)),
	)
	return s.render(ctx, order)
}

// parseQuantity accepts positive integers that fit the INTEGER column
func parseQuantity(n json.Number) (int, error) {
	q, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		return 0, err
	}
	if err := ordering.ValidateQuantity(int(q)); err != nil {
		return 0, err
	}
	return int(q), nil
}

// Get returns one of the actor's orders
func (s *OrderService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*OrderResponse, error) {
	if err := access.RequireActor(actor); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByIDForUser(ctx, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, order)
}

// List returns the actor's orders, newest first
func (s *OrderService) List(ctx context.Context, actor *access.Actor) ([]OrderResponse, error) {
	if err := access.RequireActor(actor); err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAllForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp, err := s.render(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Confirm confirms a pending order. Staff may confirm any order.
func (s *OrderService) Confirm(ctx context.Context, actor *access.Actor, id uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, actor, id, (*ordering.Order).Confirm)
}

// Cancel cancels a pending or confirmed order. Staff may cancel any order.
func (s *OrderService) Cancel(ctx context.Context, actor *access.Actor, id uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, actor, id, (*ordering.Order).Cancel)
}

func (s *OrderService) changeStatus(ctx context.Context, actor *access.Actor, id uuid.UUID, apply func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()),
	)
	return s.render(ctx, order)
}

// Delete removes one of the actor's orders together with its lines
func (s *OrderService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	order, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.orders.Delete(ctx, order.ID)
}

func (s *OrderService) loadForActor(ctx context.Context, actor *access.Actor, id uuid.UUID) (*ordering.Order, error) {
	if err := access.RequireActor(actor); err != nil {
		return nil, err
	}
	if actor.IsStaff {
		return s.orders.FindByID(ctx, id)
	}
	return s.orders.FindByIDForUser(ctx, actor.UserID, id)
}

// render re-resolves every line and computes its subtotal from the current
// price. A line whose product is gone or unpriced carries an error; the
// other lines still render.
func (s *OrderService) render(ctx context.Context, order *ordering.Order) (*OrderResponse, error) {
	resp := &OrderResponse{
		OrderID:   order.ID,
		User:      order.UserID,
		CreatedAt: order.CreatedAt,
		Status:    order.Status.String(),
		Items:     make([]OrderItemResponse, 0, len(order.Items)),
		Total:     decimal.Zero,
		Complete:  true,
	}

	for _, line := range order.Items {
		item := OrderItemResponse{
			ID:          line.ID,
			Order:       order.ID,
			Quantity:    line.Quantity,
			ContentType: line.Product.Variant,
			ObjectID:    line.Product.ID,
		}

		product, err := s.resolver.ResolveRef(ctx, line.Product)
		if err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) {
				return nil, err
			}
			item.Error = &LineError{Code: de.Code, Message: de.Message}
			resp.Complete = false
			resp.Items = append(resp.Items, item)
			continue
		}

		base := product.Base()
		item.Product = &ProductSummary{ID: base.ID, Name: base.Name, Price: base.Price, Type: product.Variant()}

		subtotal, err := line.Subtotal(product)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				item.Error = &LineError{Code: de.Code, Message: de.Message}
			}
			resp.Complete = false
		} else {
			item.ItemSubtotal = &subtotal
			resp.Total = resp.Total.Add(subtotal)
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}
