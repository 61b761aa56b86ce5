package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is the outcome of a checkout computation. AmountDue and
// RefundAmount are mutually exclusive: each is clamped at zero, so at
// most one of them is positive.
type Settlement struct {
	RoomCharge        decimal.Decimal
	ExtraPersonCharge decimal.Decimal
	GasCharge         decimal.Decimal
	TotalCharges      decimal.Decimal
	DepositAmount     decimal.Decimal
	AmountDue         decimal.Decimal
	RefundAmount      decimal.Decimal
}

// Settle offsets the deposit against total charges.
func Settle(c StayCharges, deposit decimal.Decimal) Settlement {
	total := c.Total()
	return Settlement{
		RoomCharge:        c.Room,
		ExtraPersonCharge: c.ExtraPerson,
		GasCharge:         c.Gas,
		TotalCharges:      total,
		DepositAmount:     deposit,
		AmountDue:         maxZero(total.Sub(deposit)),
		RefundAmount:      maxZero(deposit.Sub(total)),
	}
}

// EarlyRefundInput describes a stay being cut short. ExtraPersonCharge
// is the charge for the full planned stay; GasCharge is the measured
// usage, billed in full regardless of the shortened stay.
type EarlyRefundInput struct {
	Rate              decimal.Decimal
	CheckIn           time.Time
	PlannedCheckOut   time.Time
	ActualCheckOut    time.Time
	ExtraPersonCharge decimal.Decimal
	GasCharge         decimal.Decimal
}

// EarlyRefundBreakdown itemizes the day-proration refund.
type EarlyRefundBreakdown struct {
	NightsStayed     int64
	NightsPlanned    int64
	NightsNotStaying int64
	RoomRefund       decimal.Decimal
	ExtraRefund      decimal.Decimal
	GasCharge        decimal.Decimal
	TotalRefund      decimal.Decimal
}

// EarlyCheckoutRefund computes the refund for an early checkout by the
// day-proration method: unused nights are refunded at the room rate,
// the extra-person charge is prorated by the stayed/planned night
// ratio, and gas usage is subtracted in full. An actual checkout before
// the check-in date is degenerate input and refunds nothing.
//
// This is not the same calculation as DepositRefund; the two are used
// by different workflows and diverge whenever extras or gas are
// involved.
func EarlyCheckoutRefund(in EarlyRefundInput) EarlyRefundBreakdown {
	if in.ActualCheckOut.Before(in.CheckIn) {
		return EarlyRefundBreakdown{TotalRefund: decimal.Zero}
	}
	stayed := Nights(in.CheckIn, in.ActualCheckOut)
	planned := Nights(in.CheckIn, in.PlannedCheckOut)
	unused := planned - stayed
	if unused < 0 {
		unused = 0
	}
	roomRefund := in.Rate.Mul(decimal.NewFromInt(unused))

	// planned is always >= 1, so the ratio is well defined.
	ratio := decimal.NewFromInt(stayed).Div(decimal.NewFromInt(planned))
	prorated := in.ExtraPersonCharge.Mul(ratio)
	extraRefund := maxZero(in.ExtraPersonCharge.Sub(prorated))

	return EarlyRefundBreakdown{
		NightsStayed:     stayed,
		NightsPlanned:    planned,
		NightsNotStaying: unused,
		RoomRefund:       roomRefund,
		ExtraRefund:      extraRefund,
		GasCharge:        in.GasCharge,
		TotalRefund:      maxZero(roomRefund.Add(extraRefund).Sub(in.GasCharge)),
	}
}

// DepositRefund is the deposit-vs-actual-cost framing used by the
// settlement preview: whatever the deposit exceeds the actual stay cost
// by comes back to the guest.
func DepositRefund(deposit, actualStayCost decimal.Decimal) decimal.Decimal {
	return maxZero(deposit.Sub(actualStayCost))
}
