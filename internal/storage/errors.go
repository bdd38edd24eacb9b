package storage

import (
	"fmt"

	"github.com/vqtran/loanbook/internal/errs"
)

// ColumnError reports a column name the store does not recognize. Its
// message mirrors the postgres undefined-column error so convention
// detection behaves the same against real and in-memory stores.
type ColumnError struct {
	Table  string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q of relation %q does not exist", e.Column, e.Table)
}

func (e *ColumnError) Unwrap() error { return errs.ErrInvalid }

// ConflictError reports a uniqueness-constraint violation. The message
// mirrors the postgres duplicate-key error.
type ConflictError struct {
	Constraint string
	Value      any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate key value violates unique constraint %q", e.Constraint)
}

func (e *ConflictError) Unwrap() error { return errs.ErrConflict }
