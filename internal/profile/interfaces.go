package profile

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for storefront profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateDeliveryAddress(ctx context.Context, userID uuid.UUID, address *string) error
	UpdateStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error
	UpdateWalletBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
}
