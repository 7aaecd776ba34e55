package wallet

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository defines persistence operations for wallet ledger entries.
type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository
	Create(ctx context.Context, entry *models.WalletLedgerEntry) (*models.WalletLedgerEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletLedgerEntry, error)
}
