package service_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khantzwenaing/roomlynx-sub000/internal/billing"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/ports"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
	"github.com/khantzwenaing/roomlynx-sub000/internal/service"
)

type fakeStays struct {
	stay *domain.Stay
}

func (f *fakeStays) GetByID(ctx context.Context, id int64) (*domain.Stay, error) {
	if f.stay == nil || f.stay.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *f.stay
	return &cp, nil
}

type fakeRooms struct {
	room *domain.Room
}

func (f *fakeRooms) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if f.room == nil || f.room.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *f.room
	return &cp, nil
}

type fakeSettings struct {
	settings *domain.ChargeSettings
	err      error
}

func (f *fakeSettings) Get(ctx context.Context) (*domain.ChargeSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil {
		return nil, repository.ErrNotFound
	}
	cp := *f.settings
	return &cp, nil
}

type fakeWriter struct {
	records []ports.CheckoutRecord
	err     error
}

func (f *fakeWriter) CompleteCheckout(ctx context.Context, rec ports.CheckoutRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(n int) time.Time {
	return time.Date(2025, time.June, 1, 14, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func testStay() *domain.Stay {
	roomID := int64(7)
	return &domain.Stay{
		ID:              1,
		Code:            "STAY-1",
		GuestID:         3,
		RoomID:          &roomID,
		RoomNumber:      "101",
		RoomRate:        dec("80"),
		CheckInDate:     day(0),
		CheckOutDate:    day(3),
		DepositAmount:   dec("100"),
		NumberOfPersons: 1,
		Status:          domain.StayActive,
	}
}

func newService(stay *domain.Stay, settings *domain.ChargeSettings, w *fakeWriter) *service.CheckoutService {
	return &service.CheckoutService{
		Stays:    &fakeStays{stay: stay},
		Rooms:    &fakeRooms{room: &domain.Room{ID: 7, Number: "101", Status: domain.RoomOccupied}},
		Settings: &fakeSettings{settings: settings},
		Writer:   w,
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

func TestCheckout_StandardWritesPaymentDue(t *testing.T) {
	// Scenario A: 3 nights at $80, deposit $100 -> $140 due.
	w := &fakeWriter{}
	svc := newService(testStay(), nil, w)

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)

	assert.False(t, res.Early)
	assert.True(t, res.Settlement.AmountDue.Equal(dec("140")), "due: %s", res.Settlement.AmountDue)
	assert.True(t, res.Settlement.RefundAmount.IsZero())

	require.Len(t, w.records, 1)
	rec := w.records[0]
	assert.Equal(t, domain.PaymentKindPayment, rec.Kind)
	assert.True(t, rec.Amount.Equal(dec("140")))
	assert.Equal(t, int64(7), rec.RoomID)
}

func TestCheckout_EarlyWritesProrationRefund(t *testing.T) {
	// Scenario B: planned 10 nights, left after 4, deposit $800.
	stay := testStay()
	stay.CheckOutDate = day(10)
	stay.DepositAmount = dec("800")

	w := &fakeWriter{}
	svc := newService(stay, nil, w)

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(4),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)

	assert.True(t, res.Early)
	require.NotNil(t, res.EarlyRefund)
	assert.Equal(t, int64(6), res.EarlyRefund.NightsNotStaying)
	assert.True(t, res.EarlyRefund.TotalRefund.Equal(dec("480")), "refund: %s", res.EarlyRefund.TotalRefund)

	require.Len(t, w.records, 1)
	assert.Equal(t, domain.PaymentKindRefund, w.records[0].Kind)
	assert.True(t, w.records[0].Amount.Equal(dec("480")))
}

func TestCheckout_EarlyWithAmountDueWritesPayment(t *testing.T) {
	// Early departure but the deposit does not even cover the nights
	// stayed: additional payment due, no refund.
	stay := testStay()
	stay.CheckOutDate = day(10)
	stay.DepositAmount = dec("100")

	w := &fakeWriter{}
	svc := newService(stay, nil, w)

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(4),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)

	assert.True(t, res.Early)
	assert.True(t, res.Settlement.AmountDue.Equal(dec("220")), "due: %s", res.Settlement.AmountDue)
	require.Len(t, w.records, 1)
	assert.Equal(t, domain.PaymentKindPayment, w.records[0].Kind)
	assert.True(t, w.records[0].Amount.Equal(dec("220")))
}

func TestCheckout_ValidationErrors(t *testing.T) {
	stay := testStay()
	svc := newService(stay, nil, &fakeWriter{})
	ctx := context.Background()

	_, err := svc.Checkout(ctx, service.CheckoutInput{StayID: 1, ActualCheckOut: day(3), Method: domain.MethodCash})
	assert.ErrorIs(t, err, service.ErrCollectorRequired)

	_, err = svc.Checkout(ctx, service.CheckoutInput{StayID: 1, ActualCheckOut: day(3), Method: domain.MethodBankTransfer, CollectedBy: "aye"})
	assert.ErrorIs(t, err, service.ErrReferenceRequired)

	_, err = svc.Checkout(ctx, service.CheckoutInput{StayID: 1, ActualCheckOut: day(3), Method: "crypto", CollectedBy: "aye"})
	assert.ErrorIs(t, err, service.ErrInvalidMethod)
}

func TestCheckout_GasWeightRequired(t *testing.T) {
	stay := testStay()
	stay.HasGas = true
	stay.InitialGasWeight = decPtr("14.2")

	svc := newService(stay, &domain.ChargeSettings{PricePerKg: dec("100")}, &fakeWriter{})

	_, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	assert.ErrorIs(t, err, service.ErrFinalGasRequired)
}

func TestCheckout_GasFinalAboveInitialRejected(t *testing.T) {
	stay := testStay()
	stay.HasGas = true
	stay.InitialGasWeight = decPtr("10")

	w := &fakeWriter{}
	svc := newService(stay, &domain.ChargeSettings{PricePerKg: dec("100")}, w)

	_, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		FinalGasWeight: decPtr("15"),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	assert.ErrorIs(t, err, billing.ErrFinalExceedsInitial)
	assert.Empty(t, w.records, "nothing may be persisted for a rejected settlement")
}

func TestCheckout_GasChargeIncluded(t *testing.T) {
	stay := testStay()
	stay.HasGas = true
	stay.InitialGasWeight = decPtr("14.2")
	stay.RoomRate = dec("50")
	stay.NumberOfPersons = 3
	stay.DepositAmount = decimal.Zero

	settings := &domain.ChargeSettings{
		PricePerKg:        dec("100"),
		ExtraPersonCharge: dec("50"),
		ExtraPersonPolicy: domain.ExtraPersonFlat,
	}
	w := &fakeWriter{}
	svc := newService(stay, settings, w)

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		FinalGasWeight: decPtr("3.1"),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)

	// Scenario C: room 150, extras 100, gas 1110.
	assert.True(t, res.Settlement.GasCharge.Equal(dec("1110")))
	assert.True(t, res.Settlement.TotalCharges.Equal(dec("1360")), "total: %s", res.Settlement.TotalCharges)
}

func TestCheckout_MissingSettingsDegradeToZero(t *testing.T) {
	stay := testStay()
	stay.NumberOfPersons = 4

	w := &fakeWriter{}
	svc := newService(stay, nil, w) // no settings row

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)
	assert.True(t, res.Settlement.ExtraPersonCharge.IsZero(), "extras must degrade to zero without settings")
}

func TestPreview_IsPureAndRepeatable(t *testing.T) {
	w := &fakeWriter{}
	svc := newService(testStay(), nil, w)
	ctx := context.Background()

	first, err := svc.Preview(ctx, 1, day(3), nil)
	require.NoError(t, err)
	second, err := svc.Preview(ctx, 1, day(3), nil)
	require.NoError(t, err)

	assert.True(t, first.Settlement.AmountDue.Equal(second.Settlement.AmountDue))
	assert.Empty(t, w.records, "preview must not persist anything")
}

func TestPreview_DepositRefundFraming(t *testing.T) {
	stay := testStay()
	stay.CheckOutDate = day(10)
	stay.DepositAmount = dec("800")
	svc := newService(stay, nil, &fakeWriter{})

	res, err := svc.Preview(context.Background(), 1, day(4), nil)
	require.NoError(t, err)

	// Deposit-vs-actual framing: 800 - 4x80 = 480. With no extras or
	// gas it coincides with the day-proration figure.
	assert.True(t, res.DepositRefund.Equal(dec("480")), "deposit refund: %s", res.DepositRefund)
	assert.True(t, res.EarlyRefund.TotalRefund.Equal(dec("480")))
}

func TestCheckout_ZeroBalanceWritesNoRow(t *testing.T) {
	stay := testStay()
	stay.DepositAmount = dec("240") // exactly covers 3 nights at $80

	w := &fakeWriter{}
	svc := newService(stay, nil, w)

	res, err := svc.Checkout(context.Background(), service.CheckoutInput{
		StayID:         1,
		ActualCheckOut: day(3),
		Method:         domain.MethodCash,
		CollectedBy:    "aye",
	})
	require.NoError(t, err)
	assert.True(t, res.RecordedAmount.IsZero())
	require.Len(t, w.records, 1)
	assert.True(t, w.records[0].Amount.IsZero())
}
