package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

type PaymentRepository struct {
	DB *db.Postgres
}

const paymentColumns = `p.id, p.stay_id, s.code, p.kind, p.amount::text, p.method,
	p.reference_number, p.collected_by, p.note, p.created_at`

func (r PaymentRepository) ListByStay(ctx context.Context, stayID int64) ([]domain.Payment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments p
		JOIN stays s ON s.id = p.stay_id
		WHERE p.stay_id=$1 AND p.deleted_at IS NULL
		ORDER BY p.created_at, p.id
	`, stayID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func (r PaymentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments p
		JOIN stays s ON s.id = p.stay_id
		WHERE p.created_at >= $1 AND p.created_at < $2 AND p.deleted_at IS NULL
		ORDER BY p.created_at, p.id
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var amount string
		var ref pgtype.Text
		if err := rows.Scan(
			&p.ID, &p.StayID, &p.StayCode, (*string)(&p.Kind), &amount, (*string)(&p.Method),
			&ref, &p.CollectedBy, &p.Note, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.Amount = scanAmount(amount)
		if ref.Valid {
			v := ref.String
			p.ReferenceNumber = &v
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
