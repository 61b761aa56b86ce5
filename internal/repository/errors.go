package repository

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}

// scanAmount parses a numeric column selected as text. Amounts are
// written by this service, so a parse failure means corrupt data;
// degrade to zero rather than failing a whole listing.
func scanAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
