package validation

import (
	"context"
	"errors"
	"fmt"
)

// ErrLookupFailed marks a validation stage that could not run because a
// persistence lookup failed. It is an infrastructure fault, not a
// validation verdict, and callers must surface it as such.
var ErrLookupFailed = errors.New("validation lookup failed")

// Error is one field-level validation failure.
type Error struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result accumulates the outcome of a full chain run.
type Result struct {
	Errors []Error
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Rule is one ordered, pure validation stage. Stages never abort the
// chain: every stage runs and contributes its findings. A non-nil error
// reports an infrastructure failure inside the stage.
type Rule[T any] func(ctx context.Context, in T) ([]Error, error)

// Chain runs its rules in order and concatenates their findings.
type Chain[T any] struct {
	rules []Rule[T]
}

func NewChain[T any](rules ...Rule[T]) *Chain[T] {
	return &Chain[T]{rules: rules}
}

func (c *Chain[T]) Validate(ctx context.Context, in T) (Result, error) {
	var result Result
	var faults []error

	for _, rule := range c.rules {
		if rule == nil {
			continue
		}
		found, err := rule(ctx, in)
		if err != nil {
			faults = append(faults, err)
			continue
		}
		result.Errors = append(result.Errors, found...)
	}

	if len(faults) > 0 {
		return result, fmt.Errorf("%w: %w", ErrLookupFailed, errors.Join(faults...))
	}
	return result, nil
}
