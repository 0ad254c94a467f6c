package shared

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a uniqueness or referential constraint violation.
	ErrConflict = errors.New("constraint violation")
	// ErrUnauthenticated indicates a missing or unresolvable credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInsufficientStock indicates a stock adjustment would drop below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)
