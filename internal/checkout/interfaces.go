package checkout

import (
	"context"

	"github.com/chitts/storefront-backend/internal/cart"
	stripepkg "github.com/chitts/storefront-backend/pkg/stripe"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gateway is the slice of the payment provider checkout depends on.
type Gateway interface {
	EnsureCustomer(ctx context.Context, existingID *string, email string) (string, error)
	CreatePaymentSheet(ctx context.Context, customerID string, amountMinorUnits int64) (*stripepkg.PaymentSheet, error)
	VerifyPayment(ctx context.Context, paymentIntentID string) (*stripepkg.PaymentVerification, error)
}

// CartAccess is the slice of the cart service checkout needs.
type CartAccess interface {
	Get(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error)
	Reset(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
