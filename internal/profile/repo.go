package profile

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a profile repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateDeliveryAddress(ctx context.Context, userID uuid.UUID, address *string) error {
	return r.update(ctx, userID, map[string]any{"delivery_address": address})
}

func (r *repository) UpdateStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	return r.update(ctx, userID, map[string]any{"stripe_customer_id": customerID})
}

func (r *repository) UpdateWalletBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	return r.update(ctx, userID, map[string]any{"wallet_balance": balance})
}

func (r *repository) update(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
