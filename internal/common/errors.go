// Package common defines shared constants and sentinel errors used across
// server and client layers of linkshare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors. Each maps to exactly one HTTP status at the boundary.
	ErrorValidation   = errors.New("validation error")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Deployment errors.
	ErrInsecureSecret = errors.New("insecure token secret")
)

// ValidationError describes rejected client input. Message is safe to show
// to the caller as is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrorValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}
