package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/handler"
	"github.com/khantzwenaing/roomlynx-sub000/internal/ports"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
	"github.com/khantzwenaing/roomlynx-sub000/internal/service"
)

type stubStays struct {
	stay *domain.Stay
}

func (s *stubStays) GetByID(ctx context.Context, id int64) (*domain.Stay, error) {
	if s.stay == nil || s.stay.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *s.stay
	return &cp, nil
}

type stubRooms struct {
	room *domain.Room
}

func (s *stubRooms) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if s.room == nil || s.room.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *s.room
	return &cp, nil
}

type stubSettings struct{}

func (stubSettings) Get(ctx context.Context) (*domain.ChargeSettings, error) {
	return nil, repository.ErrNotFound
}

type stubWriter struct {
	records []ports.CheckoutRecord
}

func (s *stubWriter) CompleteCheckout(ctx context.Context, rec ports.CheckoutRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func newCheckoutRouter(stay *domain.Stay, w *stubWriter) http.Handler {
	roomID := int64(7)
	if stay != nil && stay.RoomID != nil {
		roomID = *stay.RoomID
	}
	svc := &service.CheckoutService{
		Stays:    &stubStays{stay: stay},
		Rooms:    &stubRooms{room: &domain.Room{ID: roomID, Number: "101", Status: domain.RoomOccupied}},
		Settings: stubSettings{},
		Writer:   w,
	}
	r := chi.NewRouter()
	handler.CheckoutHandler{Service: svc}.RegisterRoutes(r)
	return r
}

func activeStay() *domain.Stay {
	roomID := int64(7)
	checkIn := time.Date(2025, time.June, 1, 14, 0, 0, 0, time.UTC)
	rate, _ := decimal.NewFromString("80")
	deposit, _ := decimal.NewFromString("100")
	return &domain.Stay{
		ID:              1,
		Code:            "STAY-1",
		GuestID:         3,
		RoomID:          &roomID,
		RoomNumber:      "101",
		RoomRate:        rate,
		CheckInDate:     checkIn,
		CheckOutDate:    checkIn.AddDate(0, 0, 3),
		DepositAmount:   deposit,
		NumberOfPersons: 1,
		Status:          domain.StayActive,
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestCheckoutEndpoint_Preview(t *testing.T) {
	w := &stubWriter{}
	h := newCheckoutRouter(activeStay(), w)

	rec, envelope := doJSON(t, h, http.MethodPost, "/stays/1/checkout/preview",
		`{"actualCheckOutDate":"2025-06-04T14:00:00Z"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "body: %s", rec.Body.String())
	assert.Equal(t, "240", data["totalCharges"])
	assert.Equal(t, "140", data["amountDue"])
	assert.Equal(t, false, data["earlyCheckout"])
	assert.Empty(t, w.records, "preview must not persist anything")
}

func TestCheckoutEndpoint_Checkout(t *testing.T) {
	w := &stubWriter{}
	h := newCheckoutRouter(activeStay(), w)

	rec, envelope := doJSON(t, h, http.MethodPost, "/stays/1/checkout",
		`{"actualCheckOutDate":"2025-06-04T14:00:00Z","method":"cash","collectedBy":"aye"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "payment", data["recordedKind"])
	assert.Equal(t, "140", data["recordedAmount"])
	require.Len(t, w.records, 1)
}

func TestCheckoutEndpoint_Errors(t *testing.T) {
	h := newCheckoutRouter(activeStay(), &stubWriter{})

	rec, _ := doJSON(t, h, http.MethodPost, "/stays/99/checkout",
		`{"method":"cash","collectedBy":"aye"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/stays/1/checkout", `{"method":"cash"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/stays/1/checkout",
		`{"method":"bank_transfer","collectedBy":"aye"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/stays/abc/checkout", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutEndpoint_CheckedOutStayConflicts(t *testing.T) {
	stay := activeStay()
	stay.Status = domain.StayCheckedOut
	h := newCheckoutRouter(stay, &stubWriter{})

	rec, _ := doJSON(t, h, http.MethodPost, "/stays/1/checkout",
		`{"method":"cash","collectedBy":"aye"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
