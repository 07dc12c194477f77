package handler

import (
	"errors"
	"net/http"

	orderingapp "github.com/agromarket/backend/internal/application/ordering"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order endpoints. Every route requires an
// authenticated caller and only sees that caller's orders.
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders/. Lines are created all or nothing.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderingapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		// unknown products in the body answer 400
		var domainErr *shared.DomainError
		if errors.Is(err, shared.ErrProductNotFound) && errors.As(err, &domainErr) {
			h.Error(c, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /orders/
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, orders, len(orders))
}

// Get handles GET /orders/:id/
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm handles POST /orders/:id/confirm/
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /orders/:id/cancel/
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /orders/:id/
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
