package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/chitts/storefront-backend/internal/feed"
	"github.com/chitts/storefront-backend/internal/profile"
	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/chitts/storefront-backend/pkg/enums"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Snapshot is the wallet view returned to clients.
type Snapshot struct {
	Balance decimal.Decimal            `json:"balance"`
	Entries []models.WalletLedgerEntry `json:"entries"`
}

// DebitResult reports what a checkout debit actually took from the wallet.
// Debited is min(balance, requested) and never drives the balance negative.
type DebitResult struct {
	Debited      decimal.Decimal
	BalanceAfter decimal.Decimal
	Entry        *models.WalletLedgerEntry
}

// Service owns wallet balance reads and mutations. Debits happen inside the
// caller's transaction; the matching feed event is published only after the
// caller commits, via PublishDebit.
type Service interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	DebitForOrder(ctx context.Context, tx *gorm.DB, userID uuid.UUID, requested decimal.Decimal, orderID uuid.UUID) (*DebitResult, error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Snapshot, error)
	PublishDebit(ctx context.Context, result *DebitResult, userID uuid.UUID, orderSlug string)
}

type service struct {
	profiles profile.Repository
	ledger   LedgerRepository
	tx       txRunner
	notifier feed.Notifier
	logg     *logger.Logger
}

// NewService builds a wallet service with the required dependencies.
func NewService(profiles profile.Repository, ledger LedgerRepository, tx txRunner, notifier feed.Notifier, logg *logger.Logger) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{profiles: profiles, ledger: ledger, tx: tx, notifier: notifier, logg: logg}, nil
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	entries, err := s.ledger.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}
	return &Snapshot{Balance: p.WalletBalance, Entries: entries}, nil
}

// DebitForOrder takes min(balance, requested) from the wallet inside tx. A
// zero debit is not an error; the result simply carries no ledger entry.
func (s *service) DebitForOrder(ctx context.Context, tx *gorm.DB, userID uuid.UUID, requested decimal.Decimal, orderID uuid.UUID) (*DebitResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for wallet debit")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if requested.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debit amount cannot be negative")
	}

	profiles := s.profiles.WithTx(tx)
	p, err := profiles.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	debit := decimal.Min(p.WalletBalance, requested)
	if debit.IsNegative() {
		debit = decimal.Zero
	}
	balanceAfter := p.WalletBalance.Sub(debit)

	if debit.IsZero() {
		return &DebitResult{Debited: decimal.Zero, BalanceAfter: balanceAfter}, nil
	}

	if err := profiles.UpdateWalletBalance(ctx, userID, balanceAfter); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wallet balance")
	}

	oid := orderID
	entry, err := s.ledger.WithTx(tx).Create(ctx, &models.WalletLedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		OrderID:      &oid,
		Type:         enums.LedgerEntryTypeDebit,
		Amount:       debit,
		BalanceAfter: balanceAfter,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ledger entry")
	}

	return &DebitResult{Debited: debit, BalanceAfter: balanceAfter, Entry: entry}, nil
}

func (s *service) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	var balanceAfter decimal.Decimal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)
		p, err := profiles.FindByUserID(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		balanceAfter = p.WalletBalance.Add(amount)
		if err := profiles.UpdateWalletBalance(ctx, userID, balanceAfter); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wallet balance")
		}
		_, err = s.ledger.WithTx(tx).Create(ctx, &models.WalletLedgerEntry{
			ID:           uuid.New(),
			UserID:       userID,
			Type:         enums.LedgerEntryTypeCredit,
			Amount:       amount,
			BalanceAfter: balanceAfter,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ledger entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, feed.ProfileEvent{
		UserID:       userID,
		Kind:         feed.KindWalletCredited,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		OccurredAt:   time.Now().UTC(),
	})
	return s.Snapshot(ctx, userID)
}

// PublishDebit emits the feed event for a committed debit. Zero debits are
// skipped.
func (s *service) PublishDebit(ctx context.Context, result *DebitResult, userID uuid.UUID, orderSlug string) {
	if result == nil || result.Debited.IsZero() {
		return
	}
	event := feed.ProfileEvent{
		UserID:       userID,
		Kind:         feed.KindWalletDebited,
		Amount:       result.Debited,
		BalanceAfter: result.BalanceAfter,
		OccurredAt:   time.Now().UTC(),
	}
	if orderSlug != "" {
		event.OrderSlug = &orderSlug
	}
	s.publish(ctx, event)
}

// Feed delivery is best-effort. A missed event never fails the money path.
func (s *service) publish(ctx context.Context, event feed.ProfileEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "publishing wallet feed event")
	}
}
