package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/billing"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/ports"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

// Validation errors surfaced to the caller; checkout is blocked until
// the input is corrected.
var (
	ErrStayNotActive     = errors.New("stay is not active")
	ErrStayNotLinked     = errors.New("stay has no room linked")
	ErrCollectorRequired = errors.New("collected by is required")
	ErrReferenceRequired = errors.New("reference number is required for bank transfers")
	ErrFinalGasRequired  = errors.New("final gas weight is required before checkout")
	ErrInvalidMethod     = errors.New("invalid payment method")
)

// CheckoutService orchestrates the two-phase checkout: Preview is a
// pure recomputable calculation; Checkout recomputes and persists the
// outcome atomically. A crash between the phases loses nothing, the
// settlement is a pure function of stay data and is recomputed on
// retry.
type CheckoutService struct {
	Stays    ports.StayReader
	Rooms    ports.RoomReader
	Settings ports.ChargeSettingsReader
	Writer   ports.CheckoutWriter
	Logger   *slog.Logger
}

// SettlementResult is a computed settlement plus the early-checkout
// context it was computed in.
type SettlementResult struct {
	Stay       *domain.Stay
	Settlement billing.Settlement
	Early      bool

	// EarlyRefund carries the day-proration breakdown when Early.
	EarlyRefund *billing.EarlyRefundBreakdown

	// DepositRefund is the alternate deposit-vs-actual-cost figure shown
	// on the settlement summary. It is informational there and is never
	// the amount persisted by an early checkout, which uses the
	// day-proration formula instead.
	DepositRefund decimal.Decimal

	Currency string
}

type CheckoutInput struct {
	StayID          int64
	ActualCheckOut  time.Time
	FinalGasWeight  *decimal.Decimal
	Method          domain.PaymentMethod
	ReferenceNumber string
	CollectedBy     string
	Note            string
}

type CheckoutResult struct {
	SettlementResult
	RecordedKind   domain.PaymentKind
	RecordedAmount decimal.Decimal
}

// Preview computes the settlement for a checkout at asOf without
// writing anything.
func (s *CheckoutService) Preview(ctx context.Context, stayID int64, asOf time.Time, finalGas *decimal.Decimal) (*SettlementResult, error) {
	stay, err := s.Stays.GetByID(ctx, stayID)
	if err != nil {
		return nil, err
	}
	if stay.Status != domain.StayActive {
		return nil, ErrStayNotActive
	}
	return s.settle(ctx, stay, asOf, finalGas)
}

// Checkout validates settlement inputs, recomputes the settlement and
// persists the payment or refund record together with the stay and room
// transitions.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.CollectedBy == "" {
		return nil, ErrCollectorRequired
	}
	switch in.Method {
	case domain.MethodCash, domain.MethodCard:
	case domain.MethodBankTransfer:
		if in.ReferenceNumber == "" {
			return nil, ErrReferenceRequired
		}
	default:
		return nil, ErrInvalidMethod
	}

	stay, err := s.Stays.GetByID(ctx, in.StayID)
	if err != nil {
		return nil, err
	}
	if stay.Status != domain.StayActive {
		return nil, ErrStayNotActive
	}
	if stay.RoomID == nil {
		return nil, ErrStayNotLinked
	}
	room, err := s.Rooms.GetByID(ctx, *stay.RoomID)
	if err != nil {
		return nil, fmt.Errorf("resolve room: %w", err)
	}
	if room.Status != domain.RoomOccupied {
		return nil, fmt.Errorf("room %s is %s, expected occupied", room.Number, room.Status)
	}

	result, err := s.settle(ctx, stay, in.ActualCheckOut, in.FinalGasWeight)
	if err != nil {
		return nil, err
	}

	rec := ports.CheckoutRecord{
		StayID:         stay.ID,
		RoomID:         *stay.RoomID,
		ActualCheckOut: in.ActualCheckOut,
		FinalGasWeight: in.FinalGasWeight,
		Method:         in.Method,
		CollectedBy:    in.CollectedBy,
		Note:           in.Note,
	}
	if in.ReferenceNumber != "" {
		rec.ReferenceNumber = &in.ReferenceNumber
	}

	// The two refund formulas keep their original call sites: the
	// amount-due side always comes from charges-vs-deposit, while an
	// early departure refunds by day proration.
	switch {
	case result.Settlement.AmountDue.IsPositive():
		rec.Kind = domain.PaymentKindPayment
		rec.Amount = result.Settlement.AmountDue
	case result.Early && result.EarlyRefund != nil && result.EarlyRefund.TotalRefund.IsPositive():
		rec.Kind = domain.PaymentKindRefund
		rec.Amount = result.EarlyRefund.TotalRefund
	default:
		rec.Kind = domain.PaymentKindPayment
		rec.Amount = decimal.Zero
	}

	if err := s.Writer.CompleteCheckout(ctx, rec); err != nil {
		return nil, fmt.Errorf("complete checkout: %w", err)
	}

	return &CheckoutResult{
		SettlementResult: *result,
		RecordedKind:     rec.Kind,
		RecordedAmount:   rec.Amount,
	}, nil
}

func (s *CheckoutService) settle(ctx context.Context, stay *domain.Stay, asOf time.Time, finalGas *decimal.Decimal) (*SettlementResult, error) {
	settings := s.chargeSettings(ctx)

	trackGas := stay.HasGas && stay.InitialGasWeight != nil
	if finalGas == nil {
		finalGas = stay.FinalGasWeight
	}
	if trackGas && finalGas == nil {
		return nil, ErrFinalGasRequired
	}

	var gasCharge decimal.Decimal
	if trackGas {
		var err error
		gasCharge, err = billing.GasCharge(*stay.InitialGasWeight, *finalGas, settings.PricePerKg)
		if err != nil {
			return nil, err
		}
	}

	stayedNights := billing.Nights(stay.CheckInDate, asOf)
	plannedNights := billing.Nights(stay.CheckInDate, stay.CheckOutDate)
	early := asOf.Before(stay.CheckOutDate) && stayedNights < plannedNights
	fullExtra := billing.ExtraPersonCharge(stay.NumberOfPersons, plannedNights, settings)

	var charges billing.StayCharges
	var earlyRefund *billing.EarlyRefundBreakdown
	if early {
		// Actual charges for the shortened stay: room for the nights
		// stayed, extras prorated by the stayed/planned ratio, gas in
		// full.
		ratio := decimal.NewFromInt(stayedNights).Div(decimal.NewFromInt(plannedNights))
		charges = billing.StayCharges{
			Room:        billing.RoomCharge(stay.RoomRate, stay.CheckInDate, asOf),
			ExtraPerson: fullExtra.Mul(ratio),
			Gas:         gasCharge,
		}
		b := billing.EarlyCheckoutRefund(billing.EarlyRefundInput{
			Rate:              stay.RoomRate,
			CheckIn:           stay.CheckInDate,
			PlannedCheckOut:   stay.CheckOutDate,
			ActualCheckOut:    asOf,
			ExtraPersonCharge: fullExtra,
			GasCharge:         gasCharge,
		})
		earlyRefund = &b
	} else {
		charges = billing.StayCharges{
			Room:        billing.RoomCharge(stay.RoomRate, stay.CheckInDate, asOf),
			ExtraPerson: billing.ExtraPersonCharge(stay.NumberOfPersons, stayedNights, settings),
			Gas:         gasCharge,
		}
	}

	return &SettlementResult{
		Stay:          stay,
		Settlement:    billing.Settle(charges, stay.DepositAmount),
		Early:         early,
		EarlyRefund:   earlyRefund,
		DepositRefund: billing.DepositRefund(stay.DepositAmount, charges.Total()),
		Currency:      settings.CurrencyCode,
	}, nil
}

// chargeSettings fetches the rate configuration fresh for each
// computation. A missing row degrades to zero rates so a configuration
// gap never blocks checkout.
func (s *CheckoutService) chargeSettings(ctx context.Context) domain.ChargeSettings {
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && s.Logger != nil {
			s.Logger.Warn("charge settings unavailable, using zero rates", "err", err)
		} else if s.Logger != nil {
			s.Logger.Warn("charge settings missing, using zero rates")
		}
		return domain.ChargeSettings{ExtraPersonPolicy: domain.ExtraPersonFlat}
	}
	return *settings
}
