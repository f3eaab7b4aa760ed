package usecase

import (
	"errors"
	"fmt"

	"github.com/ecoreciclaje/collection-core/internal/validation"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrStateTransition       = errors.New("illegal state transition")
	ErrConfigConflict        = errors.New("configuration conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ValidationFailedError carries the per-field findings of a chain run.
// It matches ErrInvalidInput so generic error mapping still applies.
type ValidationFailedError struct {
	Findings []validation.Error
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Findings))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrInvalidInput
}

func newValidationFailed(result validation.Result) error {
	return &ValidationFailedError{Findings: result.Errors}
}
