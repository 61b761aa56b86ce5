package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/khantzwenaing/roomlynx-sub000/internal/billing"
)

func TestSettle_ScenarioA(t *testing.T) {
	// rate=$80/night, 3 nights, deposit=$100, no extras.
	c := billing.StayCharges{Room: dec("240"), ExtraPerson: decimal.Zero, Gas: decimal.Zero}
	s := billing.Settle(c, dec("100"))

	assert.True(t, s.TotalCharges.Equal(dec("240")))
	assert.True(t, s.AmountDue.Equal(dec("140")), "due: %s", s.AmountDue)
	assert.True(t, s.RefundAmount.IsZero())
}

func TestSettle_DepositExceedsCharges(t *testing.T) {
	c := billing.StayCharges{Room: dec("240")}
	s := billing.Settle(c, dec("500"))

	assert.True(t, s.AmountDue.IsZero())
	assert.True(t, s.RefundAmount.Equal(dec("260")))
}

func TestSettle_MutuallyExclusive(t *testing.T) {
	deposits := []string{"0", "100", "240", "300", "1000"}
	for _, d := range deposits {
		s := billing.Settle(billing.StayCharges{Room: dec("240")}, dec(d))
		assert.False(t, s.AmountDue.IsNegative(), "deposit %s", d)
		assert.False(t, s.RefundAmount.IsNegative(), "deposit %s", d)
		assert.False(t, s.AmountDue.IsPositive() && s.RefundAmount.IsPositive(),
			"deposit %s: due %s and refund %s both positive", d, s.AmountDue, s.RefundAmount)
	}
}

func TestEarlyCheckoutRefund_ScenarioB(t *testing.T) {
	// rate=$80/night, planned 10 nights, left after 4, no extras or gas.
	b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:            dec("80"),
		CheckIn:         day(0),
		PlannedCheckOut: day(10),
		ActualCheckOut:  day(4),
	})

	assert.Equal(t, int64(4), b.NightsStayed)
	assert.Equal(t, int64(10), b.NightsPlanned)
	assert.Equal(t, int64(6), b.NightsNotStaying)
	assert.True(t, b.RoomRefund.Equal(dec("480")), "room refund: %s", b.RoomRefund)
	assert.True(t, b.TotalRefund.Equal(dec("480")), "total refund: %s", b.TotalRefund)

	// The alternate deposit-vs-actual framing agrees here only because
	// there are no extras and no gas: 800 - 4*80 = 480.
	assert.True(t, billing.DepositRefund(dec("800"), dec("320")).Equal(b.TotalRefund))
}

func TestEarlyCheckoutRefund_ProratesExtraPersonCharge(t *testing.T) {
	// Midpoint checkout halves the extra-person charge.
	b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:              dec("100"),
		CheckIn:           day(0),
		PlannedCheckOut:   day(10),
		ActualCheckOut:    day(5),
		ExtraPersonCharge: dec("200"),
	})

	assert.True(t, b.ExtraRefund.Equal(dec("100")), "extra refund: %s", b.ExtraRefund)
	assert.True(t, b.TotalRefund.Equal(dec("600")), "total refund: %s", b.TotalRefund)
}

func TestEarlyCheckoutRefund_GasSubtractedInFull(t *testing.T) {
	b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:            dec("80"),
		CheckIn:         day(0),
		PlannedCheckOut: day(10),
		ActualCheckOut:  day(4),
		GasCharge:       dec("130"),
	})
	assert.True(t, b.TotalRefund.Equal(dec("350")), "total refund: %s", b.TotalRefund)

	// Gas exceeding the room refund clamps the refund at zero instead
	// of going negative.
	b = billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:            dec("80"),
		CheckIn:         day(0),
		PlannedCheckOut: day(10),
		ActualCheckOut:  day(9),
		GasCharge:       dec("500"),
	})
	assert.True(t, b.TotalRefund.IsZero())
}

func TestEarlyCheckoutRefund_BeforeCheckIn(t *testing.T) {
	b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:            dec("80"),
		CheckIn:         day(5),
		PlannedCheckOut: day(10),
		ActualCheckOut:  day(2),
	})
	assert.True(t, b.TotalRefund.IsZero())
}

func TestEarlyCheckoutRefund_AfterPlannedCheckout(t *testing.T) {
	// Leaving late never produces a day-proration refund.
	b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
		Rate:            dec("80"),
		CheckIn:         day(0),
		PlannedCheckOut: day(3),
		ActualCheckOut:  day(5),
	})
	assert.Equal(t, int64(0), b.NightsNotStaying)
	assert.True(t, b.TotalRefund.IsZero())
}

func TestDepositRefund(t *testing.T) {
	assert.True(t, billing.DepositRefund(dec("800"), dec("320")).Equal(dec("480")))
	assert.True(t, billing.DepositRefund(dec("100"), dec("320")).IsZero())
	assert.True(t, billing.DepositRefund(dec("320"), dec("320")).IsZero())
}

func TestRefundFormulasDiverge(t *testing.T) {
	// With extras in play the two refund formulas give different
	// numbers; they must never be swapped between call sites.
	in := billing.EarlyRefundInput{
		Rate:              dec("80"),
		CheckIn:           day(0),
		PlannedCheckOut:   day(10),
		ActualCheckOut:    day(4),
		ExtraPersonCharge: dec("100"),
	}
	proration := billing.EarlyCheckoutRefund(in).TotalRefund

	// Deposit collected at check-in versus the actual cost of the
	// shortened stay.
	actualCost := dec("320").Add(dec("40")) // 4 nights + prorated extras
	depositFraming := billing.DepositRefund(dec("800"), actualCost)

	assert.False(t, proration.Equal(depositFraming),
		"proration %s unexpectedly equals deposit framing %s", proration, depositFraming)
}
