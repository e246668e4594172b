// Package pgerrs classifies driver errors returned by PostgreSQL.
package pgerrs

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was raised by a unique constraint.
// The optional constraint names narrow the match.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return len(constraints) == 0 && errors.Is(err, gorm.ErrDuplicatedKey)
	}
	if pgErr.Code != uniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}
