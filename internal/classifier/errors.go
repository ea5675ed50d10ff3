package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyClassified is the idempotence guard: the signal already
	// carries a terminal result and must not be mutated again.
	ErrAlreadyClassified = errors.New("signal already classified")

	// ErrNotEligible means the signal is still inside its grace period.
	ErrNotEligible = errors.New("signal inside grace period")

	// ErrProfitUndefined means profit was requested for a result that
	// does not define one (PENDING, FALSE).
	ErrProfitUndefined = errors.New("profit undefined for non-decisive result")
)

// MissingDataError means the signal lacks a required field. Not retried:
// the signal is left PENDING until the record is fixed upstream.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("signal missing data: %s", e.Field)
}

// DataUnavailableError wraps a failed price or stat lookup. Retried on the
// next evaluation pass; never treated as a FALSE outcome.
type DataUnavailableError struct {
	Cause error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable: %v", e.Cause)
}

func (e *DataUnavailableError) Unwrap() error { return e.Cause }

// InvariantViolationError means the signal's own numbers are inconsistent
// (stop on the wrong side of entry, profit sign contradicting the result).
// Fatal to the signal: surfaced, never silently corrected.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

// Retryable reports whether the error is transient and worth another
// evaluation pass.
func Retryable(err error) bool {
	var du *DataUnavailableError
	return errors.As(err, &du)
}
