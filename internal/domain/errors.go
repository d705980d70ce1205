package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks a rejected document store, feed or identity provider call.
	ErrNetwork = errors.New("network failure")
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failure")
	// ErrAuthRequired is returned when an action needs a session.
	ErrAuthRequired = errors.New("authentication required")

	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NetworkError wraps a failed store call so that it matches ErrNetwork while
// keeping the original cause reachable through errors.Is/As.
func NetworkError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &networkError{op: op, err: err}
}

type networkError struct {
	op  string
	err error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *networkError) Unwrap() []error { return []error{ErrNetwork, e.err} }
