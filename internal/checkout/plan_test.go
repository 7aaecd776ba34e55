package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestSelectPlanWalletCoversTotal(t *testing.T) {
	plan := SelectPlan(d("50.00"), d("20.00"), true)

	assert.Equal(t, PlanWalletOnly, plan.Kind)
	assert.True(t, plan.WalletPortion.Equal(d("20.00")))
	assert.True(t, plan.GatewayPortion.IsZero())
	assert.False(t, plan.NeedsGateway())
}

func TestSelectPlanExactBalanceIsWalletOnly(t *testing.T) {
	plan := SelectPlan(d("20.00"), d("20.00"), true)

	assert.Equal(t, PlanWalletOnly, plan.Kind)
	assert.False(t, plan.NeedsGateway())
}

func TestSelectPlanPartial(t *testing.T) {
	plan := SelectPlan(d("10.00"), d("25.00"), true)

	assert.Equal(t, PlanGatewayPartial, plan.Kind)
	assert.True(t, plan.WalletPortion.Equal(d("10.00")))
	assert.True(t, plan.GatewayPortion.Equal(d("15.00")))
	assert.True(t, plan.NeedsGateway())
}

func TestSelectPlanEmptyWallet(t *testing.T) {
	plan := SelectPlan(decimal.Zero, d("9.99"), true)

	assert.Equal(t, PlanGatewayFull, plan.Kind)
	assert.True(t, plan.GatewayPortion.Equal(d("9.99")))
}

func TestSelectPlanNegativeBalanceTreatedAsZero(t *testing.T) {
	plan := SelectPlan(d("-3.00"), d("5.00"), true)

	assert.Equal(t, PlanGatewayFull, plan.Kind)
	assert.True(t, plan.WalletPortion.IsZero())
	assert.True(t, plan.GatewayPortion.Equal(d("5.00")))
}

func TestSelectPlanWalletDisabledChargesCardInFull(t *testing.T) {
	plan := SelectPlan(d("80.00"), d("50.00"), false)

	assert.Equal(t, PlanGatewayFull, plan.Kind)
	assert.True(t, plan.WalletPortion.IsZero())
	assert.True(t, plan.GatewayPortion.Equal(d("50.00")))
	assert.True(t, plan.NeedsGateway())
}

func TestSelectPlanPortionsSumToTotal(t *testing.T) {
	cases := []struct{ balance, total string }{
		{"0", "10.00"},
		{"3.33", "10.00"},
		{"10.00", "10.00"},
		{"99.99", "10.00"},
	}
	for _, tc := range cases {
		plan := SelectPlan(d(tc.balance), d(tc.total), true)
		assert.True(t, plan.WalletPortion.Add(plan.GatewayPortion).Equal(d(tc.total)),
			"balance=%s total=%s", tc.balance, tc.total)
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1050), toMinorUnits(d("10.50")))
	assert.Equal(t, int64(999), toMinorUnits(d("9.99")))
	assert.Equal(t, int64(999), toMinorUnits(d("9.999")))
	assert.Equal(t, int64(1050), toMinorUnits(d("10.505")))
	assert.Equal(t, int64(0), toMinorUnits(decimal.Zero))
}
