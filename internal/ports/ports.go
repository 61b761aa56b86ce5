package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// StayReader resolves stay records for settlement.
type StayReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Stay, error)
}

// RoomReader resolves rooms for settlement and status checks.
type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// ChargeSettingsReader supplies the current rate configuration.
type ChargeSettingsReader interface {
	Get(ctx context.Context) (*domain.ChargeSettings, error)
}

// CheckoutRecord is everything the checkout orchestrator persists once
// a settlement is computed: the payment or refund row, the stay's
// actual checkout date, and the room's transition to cleaning.
type CheckoutRecord struct {
	StayID          int64
	RoomID          int64
	ActualCheckOut  time.Time
	FinalGasWeight  *decimal.Decimal
	Kind            domain.PaymentKind
	Amount          decimal.Decimal
	Method          domain.PaymentMethod
	ReferenceNumber *string
	CollectedBy     string
	Note            string
}

// CheckoutWriter persists a completed checkout atomically.
type CheckoutWriter interface {
	CompleteCheckout(ctx context.Context, rec CheckoutRecord) error
}
