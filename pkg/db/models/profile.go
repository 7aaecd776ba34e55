package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile carries the per-user storefront state: delivery address and the
// stored-value wallet balance. The row is keyed by the auth user's id.
type Profile struct {
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email            string          `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	DeliveryAddress  *string         `gorm:"column:delivery_address" json:"delivery_address,omitempty"`
	WalletBalance    decimal.Decimal `gorm:"column:wallet_balance;type:numeric(12,2);not null;default:0" json:"wallet_balance"`
	StripeCustomerID *string         `gorm:"column:stripe_customer_id" json:"-"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
