package ordering

import (
	"encoding/json"
	"time"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /orders/
type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested line. Quantity is kept as a raw
// number so fractional values surface as INVALID_QUANTITY instead of a
// decoding error. A blank tag or a zero id is left to the order rules,
// which answer UNKNOWN_VARIANT and PRODUCT_NOT_FOUND.
type CreateOrderItemRequest struct {
	Quantity    json.Number `json:"quantity" binding:"required"`
	ContentType string      `json:"content_type"`
	ObjectID    uint64      `json:"object_id"`
}

// ProductSummary is the product block of an order line
type ProductSummary struct {
	ID    uint64           `json:"id"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Type  catalog.Variant  `json:"type"`
}

// LineError explains why a line could not be fully rendered
type LineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OrderItemResponse is an order line with its live subtotal
type OrderItemResponse struct {
	ID           uuid.UUID        `json:"id"`
	Order        uuid.UUID        `json:"order"`
	Quantity     int              `json:"quantity"`
	ContentType  catalog.Variant  `json:"content_type"`
	ObjectID     uint64           `json:"object_id"`
	Product      *ProductSummary  `json:"product"`
	ItemSubtotal *decimal.Decimal `json:"item_subtotal"`
	Error        *LineError       `json:"error,omitempty"`
}

// OrderResponse is an order as returned by the API. Total sums the lines
// that could be priced; Complete is false when any line failed.
type OrderResponse struct {
	OrderID   uuid.UUID           `json:"order_id"`
	User      uuid.UUID           `json:"user"`
	CreatedAt time.Time           `json:"created_at"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Complete  bool                `json:"complete"`
}
