package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable wraps every storage failure that is not a business outcome
// (not found, unique violation).
var ErrUnavailable = errors.New("storage unavailable")

// ErrCorruptRow marks a stored row that does not decode into the model.
var ErrCorruptRow = errors.New("corrupt row")

// ErrValueOutOfRange means a value did not fit its column.
var ErrValueOutOfRange = errors.New("value out of range")

// DBTX is the subset of *pgxpool.Pool the repositories use
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Unique constraint names, see config.AutoMigrate.
const (
	constraintUserEmail   = "users_email_key"
	constraintSingleOwner = "users_single_owner"
)

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr, true
	}
	return nil, false
}

func numericOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

// unavailable wraps err with ErrUnavailable unless the row itself was bad.
func unavailable(msg string, err error) error {
	if errors.Is(err, ErrCorruptRow) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrUnavailable, err)
}
