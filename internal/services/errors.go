package services

import (
	"errors"
	"strings"
)

// Define common service errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict") // e.g., duplicate email
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries every human-readable problem found in a request.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validation collects messages; err returns nil when there are none.
type validation []string

func (v *validation) add(msg string) { *v = append(*v, msg) }

func (v validation) err() error {
	if len(v) == 0 {
		return nil
	}
	return NewValidationError(v...)
}
