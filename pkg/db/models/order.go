package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chitts/storefront-backend/pkg/enums"
)

// Order is the durable record of a completed purchase. Status is set once at
// creation; only the fulfillment backend transitions it afterwards.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug           string            `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TotalPrice     decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null" json:"total_price"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	RefundedAmount decimal.Decimal   `gorm:"column:refunded_amount;type:numeric(12,2);not null;default:0" json:"refunded_amount"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
