package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	RoomVacant      RoomStatus = "vacant"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"

	StayActive     StayStatus = "active"
	StayCheckedOut StayStatus = "checked_out"

	PaymentKindDeposit PaymentKind = "deposit"
	PaymentKindPayment PaymentKind = "payment"
	PaymentKindRefund  PaymentKind = "refund"

	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"

	ExtraPersonFlat   ExtraPersonPolicy = "flat"
	ExtraPersonPerDay ExtraPersonPolicy = "per_day"
)

type UserRole string
type RoomStatus string
type StayStatus string
type PaymentKind string
type PaymentMethod string
type ExtraPersonPolicy string

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Room struct {
	ID           int64
	Number       string
	RoomType     string
	Floor        string
	Rate         decimal.Decimal
	MaxOccupancy int
	HasGas       bool
	Status       RoomStatus
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Guest struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	IDNumber  string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Stay is one guest's occupancy of one room. RoomID is cleared at
// checkout; RoomNumber and RoomRate are snapshotted so history survives
// room edits.
type Stay struct {
	ID                 int64
	Code               string
	GuestID            int64
	GuestName          string
	RoomID             *int64
	RoomNumber         string
	RoomRate           decimal.Decimal
	CheckInDate        time.Time
	CheckOutDate       time.Time
	ActualCheckOutDate *time.Time
	DepositAmount      decimal.Decimal
	NumberOfPersons    int
	HasGas             bool
	InitialGasWeight   *decimal.Decimal
	FinalGasWeight     *decimal.Decimal
	Status             StayStatus
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

type Payment struct {
	ID              int64
	StayID          int64
	StayCode        string
	Kind            PaymentKind
	Amount          decimal.Decimal
	Method          PaymentMethod
	ReferenceNumber *string
	CollectedBy     string
	Note            string
	CreatedAt       time.Time
	DeletedAt       *time.Time
}

// ChargeSettings is the singleton rate configuration consulted during
// checkout. A missing row is not an error; rate-dependent charges
// degrade to zero.
type ChargeSettings struct {
	PricePerKg        decimal.Decimal
	ExtraPersonCharge decimal.Decimal
	ExtraPersonPolicy ExtraPersonPolicy
	CurrencyCode      string
	UpdatedAt         time.Time
}

type CleaningLog struct {
	ID        int64
	RoomID    int64
	CleanedBy string
	CleanedAt time.Time
}

type DailyReportRow struct {
	Date          time.Time
	Payments      decimal.Decimal
	Refunds       decimal.Decimal
	Deposits      decimal.Decimal
	CheckinCount  int
	CheckoutCount int
}

type DashboardSummary struct {
	RoomsByStatus map[RoomStatus]int
	ActiveStays   int
	TodayRevenue  decimal.Decimal
	TodayRefunds  decimal.Decimal
}
