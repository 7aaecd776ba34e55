package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chitts/storefront-backend/pkg/enums"
)

// WalletLedgerEntry records an immutable wallet balance mutation.
type WalletLedgerEntry struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	OrderID      *uuid.UUID            `gorm:"column:order_id;type:uuid" json:"order_id,omitempty"`
	Type         enums.LedgerEntryType `gorm:"column:type;type:text;not null" json:"type"`
	Amount       decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null" json:"balance_after"`
	Metadata     json.RawMessage       `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
