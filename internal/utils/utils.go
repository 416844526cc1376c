package utils

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (23505). Uniqueness is enforced by the constraint itself, so a
// racing duplicate insert always surfaces here rather than via a pre-check.
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == pgerrcode.UniqueViolation
	}
	return false
}
