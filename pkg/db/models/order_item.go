package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chitts/storefront-backend/pkg/enums"
)

// OrderItem is one purchased unit. Quantity is always 1: a cart line of
// quantity N expands into N rows so fulfillment can track each unit's status
// independently.
type OrderItem struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID  uuid.UUID             `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity   int                   `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	UnitStatus enums.OrderItemStatus `gorm:"column:unit_status;type:text;not null;default:'pending'" json:"unit_status"`
	Product    *Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
