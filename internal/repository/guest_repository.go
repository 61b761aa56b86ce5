package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

type GuestRepository struct {
	DB *db.Postgres
}

type CreateGuestInput struct {
	Name     string
	Phone    string
	Email    string
	IDNumber string
	Address  string
}

func (r GuestRepository) Create(ctx context.Context, in CreateGuestInput) (*domain.Guest, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO guests (name, phone, email, id_number, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING id, name, phone, email, id_number, address, created_at, updated_at
	`, in.Name, in.Phone, in.Email, in.IDNumber, in.Address)
	return scanGuest(row)
}

func (r GuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, phone, email, id_number, address, created_at, updated_at
		FROM guests
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	return scanGuest(row)
}

func (r GuestRepository) List(ctx context.Context, limit int) ([]domain.Guest, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, id_number, address, created_at, updated_at
		FROM guests
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (r GuestRepository) Update(ctx context.Context, id int64, in CreateGuestInput) (*domain.Guest, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE guests SET name=$2, phone=$3, email=$4, id_number=$5, address=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING id, name, phone, email, id_number, address, created_at, updated_at
	`, id, in.Name, in.Phone, in.Email, in.IDNumber, in.Address)
	return scanGuest(row)
}

func (r GuestRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE guests SET deleted_at=now() WHERE id=$1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	if err := row.Scan(&g.ID, &g.Name, &g.Phone, &g.Email, &g.IDNumber, &g.Address, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
