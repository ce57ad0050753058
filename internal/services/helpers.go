package services

import (
	"errors"
	"fmt"
	"time"

	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	log "github.com/sirupsen/logrus"
)

// MapRepoError maps storage errors to service errors
func MapRepoError(err error, operation string) error {
	// Errors raised by the service itself inside a transaction pass through.
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %s (duplicate email)", ErrConflict, operation)
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	log.WithField("operation", operation).Errorf("Unexpected repository error: %v", err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}

// dateOf returns the calendar date of t as UTC midnight.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDate parses a wire date, falling back to def when raw is empty.
func parseDate(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
