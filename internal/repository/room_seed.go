package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

func (r RoomRepository) SeedDefaults(ctx context.Context) error {
	type seedRoom struct {
		number   string
		roomType string
		floor    string
		rate     decimal.Decimal
		maxOcc   int
		hasGas   bool
	}
	defaults := []seedRoom{
		{"101", "standard", "1", decimal.NewFromInt(50), 2, false},
		{"102", "standard", "1", decimal.NewFromInt(50), 2, false},
		{"103", "family", "1", decimal.NewFromInt(80), 4, true},
		{"201", "standard", "2", decimal.NewFromInt(55), 2, false},
		{"202", "deluxe", "2", decimal.NewFromInt(100), 3, false},
		{"203", "family", "2", decimal.NewFromInt(85), 4, true},
	}

	for _, rm := range defaults {
		// Idempotent: rooms.number is unique.
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO rooms (number, room_type, floor, rate, max_occupancy, has_gas, status, notes, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,'vacant','', now(), now())
			ON CONFLICT (number) DO NOTHING
		`, rm.number, rm.roomType, rm.floor, rm.rate.String(), rm.maxOcc, rm.hasGas)
		if err != nil {
			return err
		}
	}
	return nil
}
