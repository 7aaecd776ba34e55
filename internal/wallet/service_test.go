package wallet

import (
	"context"
	"io"
	"testing"

	"github.com/chitts/storefront-backend/internal/feed"
	"github.com/chitts/storefront-backend/internal/profile"
	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/chitts/storefront-backend/pkg/enums"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type stubNotifier struct {
	events []feed.ProfileEvent
	err    error
}

func (n *stubNotifier) Publish(_ context.Context, event feed.ProfileEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *stubNotifier) Subscribe(_ context.Context, _ uuid.UUID) (<-chan feed.ProfileEvent, func(), error) {
	return nil, nil, nil
}

func setupWalletTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  delivery_address TEXT,
  wallet_balance NUMERIC NOT NULL DEFAULT 0,
  stripe_customer_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS wallet_ledger_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_id TEXT,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  balance_after NUMERIC NOT NULL,
  metadata TEXT,
  created_at DATETIME
);`}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func setupWalletService(t *testing.T, db *gorm.DB, notifier feed.Notifier) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(profile.NewRepository(db), NewLedgerRepository(db), dbTxRunner{db: db}, notifier, logg)
	require.NoError(t, err)
	return svc
}

func seedWalletProfile(t *testing.T, db *gorm.DB, balance string) *models.Profile {
	t.Helper()

	p := &models.Profile{
		UserID:        uuid.New(),
		Email:         uuid.NewString()[:8] + "@example.com",
		WalletBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestDebitForOrderPartialBalance(t *testing.T) {
	db := setupWalletTestDB(t)
	svc := setupWalletService(t, db, &stubNotifier{})
	p := seedWalletProfile(t, db, "10.00")
	orderID := uuid.New()

	var result *DebitResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = svc.DebitForOrder(context.Background(), tx, p.UserID, decimal.RequireFromString("25.00"), orderID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, result.Debited.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, result.BalanceAfter.IsZero())
	require.NotNil(t, result.Entry)
	assert.Equal(t, enums.LedgerEntryTypeDebit, result.Entry.Type)

	var got models.Profile
	require.NoError(t, db.Where("user_id = ?", p.UserID).First(&got).Error)
	assert.True(t, got.WalletBalance.IsZero())
}

func TestDebitForOrderCoversFullTotal(t *testing.T) {
	db := setupWalletTestDB(t)
	svc := setupWalletService(t, db, &stubNotifier{})
	p := seedWalletProfile(t, db, "50.00")

	var result *DebitResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = svc.DebitForOrder(context.Background(), tx, p.UserID, decimal.RequireFromString("20.00"), uuid.New())
		return err
	})
	require.NoError(t, err)
	assert.True(t, result.Debited.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, result.BalanceAfter.Equal(decimal.RequireFromString("30.00")))
}

func TestDebitForOrderZeroBalanceWritesNoLedger(t *testing.T) {
	db := setupWalletTestDB(t)
	svc := setupWalletService(t, db, &stubNotifier{})
	p := seedWalletProfile(t, db, "0")

	var result *DebitResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = svc.DebitForOrder(context.Background(), tx, p.UserID, decimal.RequireFromString("5.00"), uuid.New())
		return err
	})
	require.NoError(t, err)
	assert.True(t, result.Debited.IsZero())
	assert.Nil(t, result.Entry)

	var count int64
	require.NoError(t, db.Model(&models.WalletLedgerEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDebitForOrderRequiresTx(t *testing.T) {
	db := setupWalletTestDB(t)
	svc := setupWalletService(t, db, &stubNotifier{})

	_, err := svc.DebitForOrder(context.Background(), nil, uuid.New(), decimal.RequireFromString("1.00"), uuid.New())
	require.Error(t, err)
}

func TestCreditUpdatesBalanceAndPublishes(t *testing.T) {
	db := setupWalletTestDB(t)
	notifier := &stubNotifier{}
	svc := setupWalletService(t, db, notifier)
	p := seedWalletProfile(t, db, "5.00")

	snap, err := svc.Credit(context.Background(), p.UserID, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(decimal.RequireFromString("15.00")))
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, enums.LedgerEntryTypeCredit, snap.Entries[0].Type)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, feed.KindWalletCredited, notifier.events[0].Kind)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	db := setupWalletTestDB(t)
	svc := setupWalletService(t, db, &stubNotifier{})

	_, err := svc.Credit(context.Background(), uuid.New(), decimal.Zero)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestPublishDebitSkipsZeroDebit(t *testing.T) {
	db := setupWalletTestDB(t)
	notifier := &stubNotifier{}
	svc := setupWalletService(t, db, notifier)

	svc.PublishDebit(context.Background(), &DebitResult{Debited: decimal.Zero}, uuid.New(), "order-abc123def")
	assert.Empty(t, notifier.events)

	svc.PublishDebit(context.Background(), &DebitResult{
		Debited:      decimal.RequireFromString("3.00"),
		BalanceAfter: decimal.RequireFromString("2.00"),
	}, uuid.New(), "order-abc123def")
	require.Len(t, notifier.events, 1)
	require.NotNil(t, notifier.events[0].OrderSlug)
	assert.Equal(t, "order-abc123def", *notifier.events[0].OrderSlug)
}

func TestSnapshotIncludesRecentEntries(t *testing.T) {
	db := setupWalletTestDB(t)
	notifier := &stubNotifier{}
	svc := setupWalletService(t, db, notifier)
	p := seedWalletProfile(t, db, "0")

	_, err := svc.Credit(context.Background(), p.UserID, decimal.RequireFromString("4.00"))
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(decimal.RequireFromString("4.00")))
	assert.Len(t, snap.Entries, 1)
}
