package db

import (
	"context"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so startup can
// run them unconditionally.
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'staff',
			password_hash TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGSERIAL PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			room_type TEXT NOT NULL DEFAULT 'standard',
			floor TEXT NOT NULL DEFAULT '',
			rate NUMERIC(12,2) NOT NULL,
			max_occupancy INT NOT NULL DEFAULT 2,
			has_gas BOOLEAN NOT NULL DEFAULT false,
			status TEXT NOT NULL DEFAULT 'vacant',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS guests (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			id_number TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS stays (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			guest_id BIGINT NOT NULL REFERENCES guests(id),
			room_id BIGINT REFERENCES rooms(id),
			room_number TEXT NOT NULL,
			room_rate NUMERIC(12,2) NOT NULL,
			check_in_date TIMESTAMPTZ NOT NULL,
			check_out_date TIMESTAMPTZ NOT NULL,
			actual_check_out_date TIMESTAMPTZ,
			deposit_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			number_of_persons INT NOT NULL DEFAULT 1,
			has_gas BOOLEAN NOT NULL DEFAULT false,
			initial_gas_weight NUMERIC(8,3),
			final_gas_weight NUMERIC(8,3),
			status TEXT NOT NULL DEFAULT 'active',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			stay_id BIGINT NOT NULL REFERENCES stays(id),
			kind TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			method TEXT NOT NULL,
			reference_number TEXT,
			collected_by TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS charge_settings (
			id INT PRIMARY KEY,
			price_per_kg NUMERIC(12,2) NOT NULL DEFAULT 0,
			extra_person_charge NUMERIC(12,2) NOT NULL DEFAULT 0,
			extra_person_policy TEXT NOT NULL DEFAULT 'flat',
			currency_code TEXT NOT NULL DEFAULT 'USD',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cleaning_logs (
			id BIGSERIAL PRIMARY KEY,
			room_id BIGINT NOT NULL REFERENCES rooms(id),
			cleaned_by TEXT NOT NULL,
			cleaned_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stays_status ON stays(status) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range stmts {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
