package models

import (
	"time"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// OrderModel is the persistence model for ordering.Order
type OrderModel struct {
	BaseModel
	UserID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Items  []OrderItemModel     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model and its loaded items to a domain order
func (m *OrderModel) ToDomain() *ordering.Order {
	o := &ordering.Order{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		Items:     make([]ordering.OrderItem, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// OrderModelFromDomain creates a model, items included, from a domain order
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{
		BaseModel: BaseModel{ID: o.ID, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt},
		UserID:    o.UserID,
		Status:    o.Status,
		Items:     make([]OrderItemModel, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          it.ID,
			OrderID:     o.ID,
			Quantity:    it.Quantity,
			ContentType: string(it.Product.Variant),
			ObjectID:    it.Product.ID,
			CreatedAt:   o.CreatedAt,
		})
	}
	return m
}

// OrderItemModel stores a (content_type, object_id) product reference.
// object_id has no foreign key: it points into one of three tables.
type OrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity    int       `gorm:"not null"`
	ContentType string    `gorm:"type:varchar(20);not null;index:idx_order_items_ref,priority:1"`
	ObjectID    uint64    `gorm:"not null;index:idx_order_items_ref,priority:2"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain order line
func (m *OrderItemModel) ToDomain() ordering.OrderItem {
	return ordering.OrderItem{
		ID:       m.ID,
		OrderID:  m.OrderID,
		Quantity: m.Quantity,
		Product:  catalog.ProductRef{Variant: catalog.Variant(m.ContentType), ID: m.ObjectID},
	}
}
