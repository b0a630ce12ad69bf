package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode = "23505"
	pgCheckViolation   = "23514"
)

// MapError translates database errors to domain errors.
// sql.ErrNoRows maps to notFoundErr; unique (23505) and check (23514)
// violations map to conflictErr with the constraint name attached.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, conflictErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDuplicateKeyCode, pgCheckViolation:
			return fmt.Errorf("%w: %s", conflictErr, pgErr.ConstraintName)
		}
	}

	return err
}
