package gateway

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vqtran/loanbook/internal/errs"
)

// pgUniqueViolation is the postgres error code for a uniqueness-constraint
// violation.
const pgUniqueViolation = "23505"

// errClass classifies a store failure for the create state machine.
type errClass int

const (
	// classModeFailure covers everything that advancing to the next naming
	// mode might fix, and terminal errors alike: both just move on.
	classModeFailure errClass = iota
	// classUniqueViolation means the identifier, not the naming mode, was
	// rejected.
	classUniqueViolation
)

func classify(err error) errClass {
	if isUniqueViolation(err) {
		return classUniqueViolation
	}
	return classModeFailure
}

// isUniqueViolation detects a uniqueness-constraint violation through the
// structured error code when available, falling back to message matching
// for stores that only surface text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint")
}
