package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

type RoomRepository struct {
	DB *db.Postgres
}

type CreateRoomInput struct {
	Number       string
	RoomType     string
	Floor        string
	Rate         decimal.Decimal
	MaxOccupancy int
	HasGas       bool
	Notes        string
}

const roomColumns = `id, number, room_type, floor, rate::text, max_occupancy, has_gas, status, notes, created_at, updated_at`

func (r RoomRepository) Create(ctx context.Context, in CreateRoomInput) (*domain.Room, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO rooms (number, room_type, floor, rate, max_occupancy, has_gas, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,'vacant',$7, now(), now())
		RETURNING `+roomColumns,
		in.Number, in.RoomType, in.Floor, in.Rate.String(), in.MaxOccupancy, in.HasGas, in.Notes)
	return scanRoom(row)
}

func (r RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	return scanRoom(row)
}

func (r RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE deleted_at IS NULL
		ORDER BY number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

type UpdateRoomInput struct {
	RoomType     *string
	Floor        *string
	Rate         *decimal.Decimal
	MaxOccupancy *int
	HasGas       *bool
	Status       *domain.RoomStatus
	Notes        *string
}

func (r RoomRepository) Update(ctx context.Context, id int64, in UpdateRoomInput) (*domain.Room, error) {
	var rate *string
	if in.Rate != nil {
		s := in.Rate.String()
		rate = &s
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE rooms SET
			room_type     = COALESCE($2, room_type),
			floor         = COALESCE($3, floor),
			rate          = COALESCE($4::numeric, rate),
			max_occupancy = COALESCE($5, max_occupancy),
			has_gas       = COALESCE($6, has_gas),
			status        = COALESCE($7, status),
			notes         = COALESCE($8, notes),
			updated_at    = now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+roomColumns,
		id, in.RoomType, in.Floor, rate, in.MaxOccupancy, in.HasGas, (*string)(in.Status), in.Notes)
	return scanRoom(row)
}

// MarkCleaned transitions a cleaning room back to vacant and records
// who cleaned it, in one transaction.
func (r RoomRepository) MarkCleaned(ctx context.Context, id int64, cleanedBy string) (*domain.Room, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE rooms SET status='vacant', updated_at=now()
		WHERE id=$1 AND status='cleaning' AND deleted_at IS NULL
		RETURNING `+roomColumns, id)
	room, err := scanRoom(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO cleaning_logs (room_id, cleaned_by, cleaned_at)
		VALUES ($1,$2, now())
	`, id, cleanedBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return room, nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	var rate string
	if err := row.Scan(
		&room.ID, &room.Number, &room.RoomType, &room.Floor, &rate, &room.MaxOccupancy,
		&room.HasGas, (*string)(&room.Status), &room.Notes, &room.CreatedAt, &room.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	room.Rate = scanAmount(rate)
	return &room, nil
}
