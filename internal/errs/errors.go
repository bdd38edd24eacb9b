package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a store-reported uniqueness violation on the contract id.
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnauthorized is returned when a mutating operation has no authenticated actor.
	ErrUnauthorized = errors.New("unauthorized")
)
