package checkout

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chitts/storefront-backend/internal/cart"
	"github.com/chitts/storefront-backend/internal/orders"
	"github.com/chitts/storefront-backend/internal/products"
	"github.com/chitts/storefront-backend/internal/profile"
	"github.com/chitts/storefront-backend/internal/wallet"
	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/chitts/storefront-backend/pkg/enums"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/chitts/storefront-backend/pkg/metrics"
	stripepkg "github.com/chitts/storefront-backend/pkg/stripe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Checkout step names used in errors, logs, and metrics.
const (
	stepValidate       = "validate"
	stepGatewaySetup   = "gateway_setup"
	stepGatewayConfirm = "gateway_confirm"
	stepOrderCreate    = "order_create"
	stepOrderItems     = "order_items"
	stepPersist        = "persist"
)

// SheetResponse carries everything the client needs to present a card
// payment, plus the plan so it can render the wallet split.
type SheetResponse struct {
	Plan  PaymentPlan             `json:"plan"`
	Sheet *stripepkg.PaymentSheet `json:"sheet,omitempty"`
}

// SheetInput carries the client's funding choice for a payment sheet request.
type SheetInput struct {
	WalletEnabled bool
}

// ExecuteInput is the confirmation request for a checkout attempt. The wallet
// flag must match the one the payment sheet was built with or the charged
// amount will not line up.
type ExecuteInput struct {
	PaymentIntentID string
	WalletEnabled   bool
}

// Result summarizes a completed checkout.
type Result struct {
	OrderSlug      string          `json:"order_slug"`
	Total          decimal.Decimal `json:"total"`
	WalletDebited  decimal.Decimal `json:"wallet_debited"`
	GatewayCharged decimal.Decimal `json:"gateway_charged"`
	Plan           PlanKind        `json:"plan"`
}

// Service orchestrates the checkout flow: plan selection, card confirmation,
// order persistence, wallet debit, and the final cart reset.
type Service interface {
	SetupPaymentSheet(ctx context.Context, userID uuid.UUID, input SheetInput) (*SheetResponse, error)
	Execute(ctx context.Context, userID uuid.UUID, input ExecuteInput) (*Result, error)
}

type service struct {
	carts    CartAccess
	orders   orders.Repository
	stock    products.StockDecrementer
	wallet   wallet.Service
	profiles profile.Repository
	gateway  Gateway
	tx       txRunner
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger

	// one checkout attempt per user at a time
	inFlight sync.Map
}

// NewService builds a checkout service with the required dependencies.
func NewService(
	carts CartAccess,
	ordersRepo orders.Repository,
	stock products.StockDecrementer,
	walletSvc wallet.Service,
	profiles profile.Repository,
	gateway Gateway,
	tx txRunner,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	if walletSvc == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:    carts,
		orders:   ordersRepo,
		stock:    stock,
		wallet:   walletSvc,
		profiles: profiles,
		gateway:  gateway,
		tx:       tx,
		metrics:  checkoutMetrics,
		logg:     logg,
	}, nil
}

func (s *service) SetupPaymentSheet(ctx context.Context, userID uuid.UUID, input SheetInput) (*SheetResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	ctx = s.logg.WithUserID(ctx, userID.String())

	p, snap, err := s.loadProfileAndCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := SelectPlan(p.WalletBalance, snap.TotalPrice, input.WalletEnabled)
	if !plan.NeedsGateway() {
		return &SheetResponse{Plan: plan}, nil
	}

	customerID, err := s.gateway.EnsureCustomer(ctx, p.StripeCustomerID, p.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGatewaySetupFailed, err, "ensure gateway customer")
	}
	if p.StripeCustomerID == nil || *p.StripeCustomerID != customerID {
		if err := s.profiles.UpdateStripeCustomerID(ctx, userID, customerID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store gateway customer id")
		}
	}

	sheet, err := s.gateway.CreatePaymentSheet(ctx, customerID, toMinorUnits(plan.GatewayPortion))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGatewaySetupFailed, err, "create payment sheet")
	}
	return &SheetResponse{Plan: plan, Sheet: sheet}, nil
}

func (s *service) Execute(ctx context.Context, userID uuid.UUID, input ExecuteInput) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	ctx = s.logg.WithUserID(ctx, userID.String())

	release, ok := s.acquire(userID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeCheckoutInProgress, "a checkout attempt is already in progress")
	}
	defer release()

	started := time.Now()
	result, err := s.execute(ctx, userID, input)
	if err != nil {
		s.metrics.IncFailure(planLabel(result), failureStep(err))
		return nil, err
	}
	s.metrics.ObserveDuration(string(result.Plan), time.Since(started))
	s.metrics.IncSuccess(string(result.Plan))
	return result, nil
}

func (s *service) execute(ctx context.Context, userID uuid.UUID, input ExecuteInput) (*Result, error) {
	p, snap, err := s.loadProfileAndCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.DeliveryAddress == nil || *p.DeliveryAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNoDeliveryAddress, "delivery address required before checkout")
	}

	plan := SelectPlan(p.WalletBalance, snap.TotalPrice, input.WalletEnabled)
	ctx = s.logg.WithField(ctx, "plan", string(plan.Kind))

	// Card money moves first. The wallet is only touched after the gateway
	// confirms, so a declined card never drains a wallet. The intent id comes
	// from the client, so the amount and owning customer are checked against
	// our own records before any order is written.
	if plan.NeedsGateway() {
		if input.PaymentIntentID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required for card payment")
		}
		verification, err := s.gateway.VerifyPayment(ctx, input.PaymentIntentID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeGatewayDeclined, err, "verify card payment")
		}
		if !verification.Succeeded {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayDeclined, "card payment was not completed")
		}
		if verification.AmountMinorUnits != toMinorUnits(plan.GatewayPortion) {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayDeclined, "card payment amount does not match the order total")
		}
		if p.StripeCustomerID == nil || verification.CustomerID != *p.StripeCustomerID {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayDeclined, "card payment does not belong to this customer")
		}
	}

	slug := orders.NewSlug()
	ctx = s.logg.WithOrderSlug(ctx, slug)
	expanded := snap.Expanded()

	var debit *wallet.DebitResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			ID:             uuid.New(),
			Slug:           slug,
			UserID:         userID,
			TotalPrice:     snap.TotalPrice,
			Status:         enums.OrderStatusPending,
			RefundedAmount: decimal.Zero,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeOrderCreateFailed, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(expanded))
		for _, unit := range expanded {
			items = append(items, models.OrderItem{
				ID:         uuid.New(),
				OrderID:    order.ID,
				ProductID:  unit.ProductID,
				Quantity:   1,
				UnitPrice:  unit.UnitPrice,
				UnitStatus: enums.OrderItemStatusPending,
			})
		}
		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeOrderItemsFailed, err, "create order items")
		}

		for _, line := range snap.Items {
			if err := s.stock.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		debit, err = s.wallet.DebitForOrder(ctx, tx, userID, plan.WalletPortion, order.ID)
		return err
	})
	if err != nil {
		s.logg.Error(ctx, "checkout persistence failed", err)
		return nil, err
	}

	s.wallet.PublishDebit(ctx, debit, userID, slug)

	// The cart reset is strictly last so a failure anywhere above leaves the
	// cart intact for a retry.
	if _, err := s.carts.Reset(ctx, userID); err != nil {
		s.logg.Error(ctx, "resetting cart after checkout", err)
	}

	s.logg.Info(ctx, "checkout completed")
	return &Result{
		OrderSlug:      slug,
		Total:          snap.TotalPrice,
		WalletDebited:  debit.Debited,
		GatewayCharged: plan.GatewayPortion,
		Plan:           plan.Kind,
	}, nil
}

func (s *service) loadProfileAndCart(ctx context.Context, userID uuid.UUID) (*models.Profile, cart.Snapshot, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, cart.Snapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, cart.Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	snap, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, cart.Snapshot{}, err
	}
	if snap.ItemCount == 0 {
		return nil, cart.Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return p, snap, nil
}

func (s *service) acquire(userID uuid.UUID) (func(), bool) {
	v, _ := s.inFlight.LoadOrStore(userID, &atomic.Bool{})
	flag := v.(*atomic.Bool)
	if !flag.CompareAndSwap(false, true) {
		return nil, false
	}
	return func() { flag.Store(false) }, true
}

// toMinorUnits truncates toward zero so a sub-cent cart total never charges
// the customer an extra cent.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Floor().IntPart()
}

func planLabel(result *Result) string {
	if result == nil {
		return "unknown"
	}
	return string(result.Plan)
}

func failureStep(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return stepValidate
	}
	switch typed.Code() {
	case pkgerrors.CodeGatewaySetupFailed:
		return stepGatewaySetup
	case pkgerrors.CodeGatewayDeclined:
		return stepGatewayConfirm
	case pkgerrors.CodeOrderCreateFailed:
		return stepOrderCreate
	case pkgerrors.CodeOrderItemsFailed:
		return stepOrderItems
	case pkgerrors.CodeDependency:
		return stepPersist
	default:
		return stepValidate
	}
}
