package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup, update or delete touches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("already exists")
)

// SQLSTATE for unique_violation
const uniqueViolation = "23505"

// uniqueFields maps unique constraint names to the field they guard
var uniqueFields = map[string]string{
	"salesmen_email_key":     "email",
	"customers_email_key":    "email",
	"distributors_email_key": "email",
	"products_sku_key":       "sku",
}

// DuplicateError reports which unique field a write collided on
type DuplicateError struct {
	Constraint string
	Field      string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s (%s): %v", e.Field, e.Constraint, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDuplicate) match
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// classify converts driver errors into the package's sentinel errors
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field := uniqueFields[pgErr.ConstraintName]
		if field == "" {
			field = "value"
		}
		return &DuplicateError{Constraint: pgErr.ConstraintName, Field: field, Err: err}
	}
	return err
}

// DuplicateField returns the field name of a duplicate error, or "" if err is not one
func DuplicateField(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field
	}
	return ""
}
