package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event kinds published on a profile's feed channel.
const (
	KindWalletDebited  = "wallet_debited"
	KindWalletCredited = "wallet_credited"
)

// ProfileEvent is the payload pushed to a user's realtime feed whenever their
// wallet balance changes.
type ProfileEvent struct {
	UserID       uuid.UUID       `json:"user_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	OrderSlug    *string         `json:"order_slug,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
