package wallet

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository builds a ledger repository bound to the provided DB.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	if tx == nil {
		return r
	}
	return &ledgerRepository{db: tx}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *models.WalletLedgerEntry) (*models.WalletLedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletLedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.WalletLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
