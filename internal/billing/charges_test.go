package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khantzwenaing/roomlynx-sub000/internal/billing"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(n int) time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNights(t *testing.T) {
	checkIn := day(0)

	tests := []struct {
		name string
		end  time.Time
		want int64
	}{
		{"three full days", day(3), 3},
		{"same instant still bills one night", checkIn, 1},
		{"end before check-in clamps to one night", day(-2), 1},
		{"partial day rounds up", checkIn.Add(26 * time.Hour), 2},
		{"one minute into a new day rounds up", checkIn.Add(24*time.Hour + time.Minute), 2},
		{"exactly 24h is one night", checkIn.Add(24 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billing.Nights(checkIn, tt.end))
		})
	}
}

func TestRoomCharge(t *testing.T) {
	rate := dec("80")

	got := billing.RoomCharge(rate, day(0), day(3))
	assert.True(t, got.Equal(dec("240")), "got %s", got)

	// Minimum one night even for a same-day checkout.
	got = billing.RoomCharge(rate, day(0), day(0))
	assert.True(t, got.Equal(dec("80")), "got %s", got)
}

func TestExtraPersonCharge(t *testing.T) {
	flat := domain.ChargeSettings{ExtraPersonCharge: dec("50"), ExtraPersonPolicy: domain.ExtraPersonFlat}
	perDay := domain.ChargeSettings{ExtraPersonCharge: dec("50"), ExtraPersonPolicy: domain.ExtraPersonPerDay}

	assert.True(t, billing.ExtraPersonCharge(3, 3, flat).Equal(dec("100")))
	assert.True(t, billing.ExtraPersonCharge(3, 3, perDay).Equal(dec("300")))
	assert.True(t, billing.ExtraPersonCharge(1, 3, flat).IsZero())
	assert.True(t, billing.ExtraPersonCharge(0, 3, flat).IsZero())

	// Missing rate settings degrade to zero, never an error.
	assert.True(t, billing.ExtraPersonCharge(4, 3, domain.ChargeSettings{}).IsZero())
}

func TestGasCharge(t *testing.T) {
	got, err := billing.GasCharge(dec("14.2"), dec("3.1"), dec("100"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1110")), "got %s", got)

	// Equal weights charge exactly zero.
	got, err = billing.GasCharge(dec("10"), dec("10"), dec("100"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// Scenario D: final above initial is rejected.
	_, err = billing.GasCharge(dec("10"), dec("15"), dec("100"))
	assert.ErrorIs(t, err, billing.ErrFinalExceedsInitial)
}

func TestCalculateCharges_ScenarioC(t *testing.T) {
	// rate=$50/night, 3 nights, 3 persons (2 extra, flat $50 each),
	// gas 14.2kg -> 3.1kg at $100/kg.
	in := billing.ChargesInput{
		Rate:             dec("50"),
		CheckIn:          day(0),
		End:              day(3),
		NumberOfPersons:  3,
		TrackGas:         true,
		InitialGasWeight: dec("14.2"),
		FinalGasWeight:   dec("3.1"),
		Settings: domain.ChargeSettings{
			PricePerKg:        dec("100"),
			ExtraPersonCharge: dec("50"),
			ExtraPersonPolicy: domain.ExtraPersonFlat,
		},
	}
	c, err := billing.CalculateCharges(in)
	require.NoError(t, err)
	assert.True(t, c.Room.Equal(dec("150")), "room: %s", c.Room)
	assert.True(t, c.ExtraPerson.Equal(dec("100")), "extra: %s", c.ExtraPerson)
	assert.True(t, c.Gas.Equal(dec("1110")), "gas: %s", c.Gas)
	assert.True(t, c.Total().Equal(dec("1360")), "total: %s", c.Total())
}

func TestCalculateCharges_Idempotent(t *testing.T) {
	in := billing.ChargesInput{
		Rate:            dec("75.50"),
		CheckIn:         day(0),
		End:             day(5),
		NumberOfPersons: 2,
		Settings: domain.ChargeSettings{
			ExtraPersonCharge: dec("25"),
			ExtraPersonPolicy: domain.ExtraPersonPerDay,
		},
	}
	first, err := billing.CalculateCharges(in)
	require.NoError(t, err)
	second, err := billing.CalculateCharges(in)
	require.NoError(t, err)
	assert.True(t, first.Room.Equal(second.Room))
	assert.True(t, first.ExtraPerson.Equal(second.ExtraPerson))
	assert.True(t, first.Gas.Equal(second.Gas))
}
