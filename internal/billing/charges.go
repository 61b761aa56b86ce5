package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

// ErrFinalExceedsInitial is returned when a gas cylinder's final weight
// is reported higher than the weight recorded at check-in.
var ErrFinalExceedsInitial = errors.New("final weight cannot exceed initial weight")

const msPerDay = 86_400_000

// Nights returns the number of nights billed between checkIn and end.
// Any fraction of a day counts as a full night, and the result is never
// below 1: a same-day or back-dated checkout still pays for one night.
func Nights(checkIn, end time.Time) int64 {
	ms := end.Sub(checkIn).Milliseconds()
	nights := ms / msPerDay
	if ms%msPerDay > 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return nights
}

// RoomCharge is nights × rate with end as the billing cutoff (the
// planned checkout for a standard stay, the actual date for an early
// one).
func RoomCharge(rate decimal.Decimal, checkIn, end time.Time) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(Nights(checkIn, end)))
}

// ExtraPersonCharge bills persons beyond the first. The rate applies
// either once per stay or per night depending on the configured policy.
// Unconfigured settings yield zero rather than blocking checkout.
func ExtraPersonCharge(persons int, nights int64, s domain.ChargeSettings) decimal.Decimal {
	extras := persons - 1
	if extras <= 0 || s.ExtraPersonCharge.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	charge := s.ExtraPersonCharge.Mul(decimal.NewFromInt(int64(extras)))
	if s.ExtraPersonPolicy == domain.ExtraPersonPerDay {
		charge = charge.Mul(decimal.NewFromInt(nights))
	}
	return charge
}

// GasCharge bills measured cylinder usage at the configured price per
// kilogram. A final weight above the initial weight is a validation
// error, never a negative usage.
func GasCharge(initial, final, pricePerKg decimal.Decimal) (decimal.Decimal, error) {
	if final.GreaterThan(initial) {
		return decimal.Zero, ErrFinalExceedsInitial
	}
	used := maxZero(initial.Sub(final))
	return used.Mul(pricePerKg), nil
}

// StayCharges are the three charge components of one stay.
type StayCharges struct {
	Room        decimal.Decimal
	ExtraPerson decimal.Decimal
	Gas         decimal.Decimal
}

func (c StayCharges) Total() decimal.Decimal {
	return c.Room.Add(c.ExtraPerson).Add(c.Gas)
}

// ChargesInput collects everything the calculator needs, handed in
// fully resolved so the computation stays pure.
type ChargesInput struct {
	Rate            decimal.Decimal
	CheckIn         time.Time
	End             time.Time
	NumberOfPersons int

	// Gas fields apply only when TrackGas is set.
	TrackGas         bool
	InitialGasWeight decimal.Decimal
	FinalGasWeight   decimal.Decimal

	Settings domain.ChargeSettings
}

// CalculateCharges computes all components for a stay up to in.End.
func CalculateCharges(in ChargesInput) (StayCharges, error) {
	nights := Nights(in.CheckIn, in.End)
	c := StayCharges{
		Room:        RoomCharge(in.Rate, in.CheckIn, in.End),
		ExtraPerson: ExtraPersonCharge(in.NumberOfPersons, nights, in.Settings),
		Gas:         decimal.Zero,
	}
	if in.TrackGas {
		gas, err := GasCharge(in.InitialGasWeight, in.FinalGasWeight, in.Settings.PricePerKg)
		if err != nil {
			return StayCharges{}, err
		}
		c.Gas = gas
	}
	return c, nil
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
