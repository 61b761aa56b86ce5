package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

type ReportRepository struct {
	DB *db.Postgres
}

// Daily aggregates payment activity and check-in/out counts per day.
func (r ReportRepository) Daily(ctx context.Context, from, to time.Time) ([]domain.DailyReportRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT d.day,
		       COALESCE(pay.payments, '0'),
		       COALESCE(pay.refunds, '0'),
		       COALESCE(pay.deposits, '0'),
		       COALESCE(ci.checkins, 0),
		       COALESCE(co.checkouts, 0)
		FROM generate_series(date_trunc('day', $1::timestamptz), date_trunc('day', $2::timestamptz), interval '1 day') AS d(day)
		LEFT JOIN (
			SELECT date_trunc('day', created_at) AS day,
			       SUM(amount) FILTER (WHERE kind='payment')::text AS payments,
			       SUM(amount) FILTER (WHERE kind='refund')::text  AS refunds,
			       SUM(amount) FILTER (WHERE kind='deposit')::text AS deposits
			FROM payments
			WHERE deleted_at IS NULL
			GROUP BY 1
		) pay ON pay.day = d.day
		LEFT JOIN (
			SELECT date_trunc('day', check_in_date) AS day, COUNT(*) AS checkins
			FROM stays WHERE deleted_at IS NULL GROUP BY 1
		) ci ON ci.day = d.day
		LEFT JOIN (
			SELECT date_trunc('day', actual_check_out_date) AS day, COUNT(*) AS checkouts
			FROM stays WHERE deleted_at IS NULL AND actual_check_out_date IS NOT NULL GROUP BY 1
		) co ON co.day = d.day
		ORDER BY d.day
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []domain.DailyReportRow
	for rows.Next() {
		var row domain.DailyReportRow
		var payments, refunds, deposits string
		if err := rows.Scan(&row.Date, &payments, &refunds, &deposits, &row.CheckinCount, &row.CheckoutCount); err != nil {
			return nil, err
		}
		row.Payments = scanAmount(payments)
		row.Refunds = scanAmount(refunds)
		row.Deposits = scanAmount(deposits)
		report = append(report, row)
	}
	return report, rows.Err()
}

// Dashboard summarizes current occupancy and today's money movement.
func (r ReportRepository) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	sum := &domain.DashboardSummary{
		RoomsByStatus: make(map[domain.RoomStatus]int),
		TodayRevenue:  decimal.Zero,
		TodayRefunds:  decimal.Zero,
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM rooms WHERE deleted_at IS NULL GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		sum.RoomsByStatus[domain.RoomStatus(status)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM stays WHERE status='active' AND deleted_at IS NULL
	`).Scan(&sum.ActiveStays); err != nil {
		return nil, err
	}

	var revenue, refunds string
	if err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE kind IN ('payment','deposit')), 0)::text,
		       COALESCE(SUM(amount) FILTER (WHERE kind='refund'), 0)::text
		FROM payments
		WHERE created_at >= date_trunc('day', now()) AND deleted_at IS NULL
	`).Scan(&revenue, &refunds); err != nil {
		return nil, err
	}
	sum.TodayRevenue = scanAmount(revenue)
	sum.TodayRefunds = scanAmount(refunds)

	return sum, nil
}
