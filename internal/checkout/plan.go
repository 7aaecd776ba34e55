package checkout

import "github.com/shopspring/decimal"

// PlanKind names how a checkout total gets funded.
type PlanKind string

const (
	// PlanWalletOnly covers the whole total from the wallet balance.
	PlanWalletOnly PlanKind = "wallet_only"
	// PlanGatewayPartial splits the total between wallet and card.
	PlanGatewayPartial PlanKind = "gateway_partial"
	// PlanGatewayFull charges the whole total to the card.
	PlanGatewayFull PlanKind = "gateway_full"
)

// PaymentPlan is the funding split for one checkout attempt. Portions always
// sum to the total and neither portion is negative.
type PaymentPlan struct {
	Kind           PlanKind        `json:"kind"`
	Total          decimal.Decimal `json:"total"`
	WalletPortion  decimal.Decimal `json:"wallet_portion"`
	GatewayPortion decimal.Decimal `json:"gateway_portion"`
}

// NeedsGateway reports whether the plan requires a card payment.
func (p PaymentPlan) NeedsGateway() bool {
	return p.GatewayPortion.IsPositive()
}

// SelectPlan decides the funding split for the given wallet balance and cart
// total. With the wallet enabled it contributes first, up to its balance. With
// the wallet disabled the whole total goes to the card and the balance is left
// untouched.
func SelectPlan(balance, total decimal.Decimal, walletEnabled bool) PaymentPlan {
	if !walletEnabled || balance.IsNegative() {
		balance = decimal.Zero
	}
	wallet := decimal.Min(balance, total)
	gateway := total.Sub(wallet)

	kind := PlanGatewayPartial
	switch {
	case gateway.IsZero():
		kind = PlanWalletOnly
	case wallet.IsZero():
		kind = PlanGatewayFull
	}
	return PaymentPlan{Kind: kind, Total: total, WalletPortion: wallet, GatewayPortion: gateway}
}
