package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/ports"
)

type StayRepository struct {
	DB *db.Postgres
}

var ErrRoomNotVacant = errors.New("room is not vacant")

type CheckInInput struct {
	GuestID          int64
	RoomID           int64
	CheckInDate      time.Time
	CheckOutDate     time.Time
	DepositAmount    decimal.Decimal
	NumberOfPersons  int
	InitialGasWeight *decimal.Decimal
	Notes            string

	// Deposit receipt details; a deposit row is written only when the
	// amount is positive.
	DepositMethod      domain.PaymentMethod
	DepositReference   *string
	DepositCollectedBy string
}

// CheckIn creates the stay, marks the room occupied, and records the
// deposit in one transaction. The room row is guarded so two check-ins
// cannot claim the same room.
func (r StayRepository) CheckIn(ctx context.Context, in CheckInInput) (*domain.Stay, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var roomNumber, roomRate string
	var hasGas bool
	err = tx.QueryRow(ctx, `
		UPDATE rooms SET status='occupied', updated_at=now()
		WHERE id=$1 AND status='vacant' AND deleted_at IS NULL
		RETURNING number, rate::text, has_gas
	`, in.RoomID).Scan(&roomNumber, &roomRate, &hasGas)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotVacant
		}
		return nil, err
	}

	code := fmt.Sprintf("STAY-%d", time.Now().UnixNano()/1e6)
	var gasWeight *string
	if in.InitialGasWeight != nil {
		s := in.InitialGasWeight.String()
		gasWeight = &s
	}

	var id int64
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO stays
		(code, guest_id, room_id, room_number, room_rate, check_in_date, check_out_date,
		 deposit_amount, number_of_persons, has_gas, initial_gas_weight, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8::numeric,$9,$10,$11::numeric,'active',$12, now(), now())
		RETURNING id, created_at
	`, code, in.GuestID, in.RoomID, roomNumber, roomRate, in.CheckInDate, in.CheckOutDate,
		in.DepositAmount.String(), in.NumberOfPersons, hasGas, gasWeight, in.Notes).Scan(&id, &createdAt)
	if err != nil {
		return nil, err
	}

	if in.DepositAmount.IsPositive() {
		_, err = tx.Exec(ctx, `
			INSERT INTO payments (stay_id, kind, amount, method, reference_number, collected_by, note, created_at)
			VALUES ($1,'deposit',$2::numeric,$3,$4,$5,'deposit collected at check-in', now())
		`, id, in.DepositAmount.String(), string(in.DepositMethod), in.DepositReference, in.DepositCollectedBy)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	roomID := in.RoomID
	return &domain.Stay{
		ID:               id,
		Code:             code,
		GuestID:          in.GuestID,
		RoomID:           &roomID,
		RoomNumber:       roomNumber,
		RoomRate:         scanAmount(roomRate),
		CheckInDate:      in.CheckInDate,
		CheckOutDate:     in.CheckOutDate,
		DepositAmount:    in.DepositAmount,
		NumberOfPersons:  in.NumberOfPersons,
		HasGas:           hasGas,
		InitialGasWeight: in.InitialGasWeight,
		Status:           domain.StayActive,
		Notes:            in.Notes,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}, nil
}

const stayColumns = `s.id, s.code, s.guest_id, g.name, s.room_id, s.room_number, s.room_rate::text,
	s.check_in_date, s.check_out_date, s.actual_check_out_date, s.deposit_amount::text,
	s.number_of_persons, s.has_gas, s.initial_gas_weight::text, s.final_gas_weight::text,
	s.status, s.notes, s.created_at, s.updated_at`

func (r StayRepository) GetByID(ctx context.Context, id int64) (*domain.Stay, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+stayColumns+`
		FROM stays s
		JOIN guests g ON g.id = s.guest_id
		WHERE s.id=$1 AND s.deleted_at IS NULL
	`, id)
	return scanStay(row)
}

func (r StayRepository) List(ctx context.Context, status *domain.StayStatus, limit int) ([]domain.Stay, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+stayColumns+`
		FROM stays s
		JOIN guests g ON g.id = s.guest_id
		WHERE s.deleted_at IS NULL AND ($1::text IS NULL OR s.status=$1)
		ORDER BY s.check_in_date DESC, s.id DESC
		LIMIT $2
	`, (*string)(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stays []domain.Stay
	for rows.Next() {
		s, err := scanStay(rows)
		if err != nil {
			return nil, err
		}
		stays = append(stays, *s)
	}
	return stays, rows.Err()
}

// SetFinalGasWeight records the cylinder weight measured at checkout.
func (r StayRepository) SetFinalGasWeight(ctx context.Context, id int64, weight decimal.Decimal) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE stays SET final_gas_weight=$2::numeric, updated_at=now()
		WHERE id=$1 AND status='active' AND deleted_at IS NULL
	`, id, weight.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteCheckout persists a computed settlement: payment or refund
// row, stay closed with its actual checkout date and room link cleared,
// room moved to cleaning. All or nothing; on a crash the settlement is
// simply recomputed.
func (r StayRepository) CompleteCheckout(ctx context.Context, rec ports.CheckoutRecord) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var finalGas *string
	if rec.FinalGasWeight != nil {
		s := rec.FinalGasWeight.String()
		finalGas = &s
	}
	tag, err := tx.Exec(ctx, `
		UPDATE stays SET
			status='checked_out',
			actual_check_out_date=$2,
			final_gas_weight=COALESCE($3::numeric, final_gas_weight),
			room_id=NULL,
			updated_at=now()
		WHERE id=$1 AND status='active' AND deleted_at IS NULL
	`, rec.StayID, rec.ActualCheckOut, finalGas)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE rooms SET status='cleaning', updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, rec.RoomID); err != nil {
		return err
	}

	if rec.Amount.IsPositive() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO payments (stay_id, kind, amount, method, reference_number, collected_by, note, created_at)
			VALUES ($1,$2,$3::numeric,$4,$5,$6,$7, now())
		`, rec.StayID, string(rec.Kind), rec.Amount.String(), string(rec.Method),
			rec.ReferenceNumber, rec.CollectedBy, rec.Note); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanStay(row pgx.Row) (*domain.Stay, error) {
	var s domain.Stay
	var roomID pgtype.Int8
	var rate, deposit string
	var initialGas, finalGas pgtype.Text
	var actualOut pgtype.Timestamptz
	if err := row.Scan(
		&s.ID, &s.Code, &s.GuestID, &s.GuestName, &roomID, &s.RoomNumber, &rate,
		&s.CheckInDate, &s.CheckOutDate, &actualOut, &deposit,
		&s.NumberOfPersons, &s.HasGas, &initialGas, &finalGas,
		(*string)(&s.Status), &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if roomID.Valid {
		s.RoomID = &roomID.Int64
	}
	if actualOut.Valid {
		t := actualOut.Time
		s.ActualCheckOutDate = &t
	}
	s.RoomRate = scanAmount(rate)
	s.DepositAmount = scanAmount(deposit)
	if initialGas.Valid {
		d := scanAmount(initialGas.String)
		s.InitialGasWeight = &d
	}
	if finalGas.Valid {
		d := scanAmount(finalGas.String)
		s.FinalGasWeight = &d
	}
	return &s, nil
}
