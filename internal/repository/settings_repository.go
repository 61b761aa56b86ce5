package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
)

type SettingsRepository struct {
	DB *db.Postgres
}

func (r SettingsRepository) Get(ctx context.Context) (*domain.ChargeSettings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT price_per_kg::text, extra_person_charge::text, extra_person_policy, currency_code, updated_at
		FROM charge_settings
		WHERE id=1
	`)
	var s domain.ChargeSettings
	var pricePerKg, extraPerson string
	if err := row.Scan(&pricePerKg, &extraPerson, (*string)(&s.ExtraPersonPolicy), &s.CurrencyCode, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.PricePerKg = scanAmount(pricePerKg)
	s.ExtraPersonCharge = scanAmount(extraPerson)
	return &s, nil
}

func (r SettingsRepository) Save(ctx context.Context, s domain.ChargeSettings) (*domain.ChargeSettings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO charge_settings (id, price_per_kg, extra_person_charge, extra_person_policy, currency_code, updated_at)
		VALUES (1,$1::numeric,$2::numeric,$3,$4, now())
		ON CONFLICT (id) DO UPDATE SET
			price_per_kg=EXCLUDED.price_per_kg,
			extra_person_charge=EXCLUDED.extra_person_charge,
			extra_person_policy=EXCLUDED.extra_person_policy,
			currency_code=EXCLUDED.currency_code,
			updated_at=now()
		RETURNING price_per_kg::text, extra_person_charge::text, extra_person_policy, currency_code, updated_at
	`, s.PricePerKg.String(), s.ExtraPersonCharge.String(), string(s.ExtraPersonPolicy), s.CurrencyCode)

	var out domain.ChargeSettings
	var pricePerKg, extraPerson string
	if err := row.Scan(&pricePerKg, &extraPerson, (*string)(&out.ExtraPersonPolicy), &out.CurrencyCode, &out.UpdatedAt); err != nil {
		return nil, err
	}
	out.PricePerKg = scanAmount(pricePerKg)
	out.ExtraPersonCharge = scanAmount(extraPerson)
	return &out, nil
}
