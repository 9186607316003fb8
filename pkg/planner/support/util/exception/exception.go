// Package exception provides the error type shared by planfeed components.
// Errors carry the module in which they occurred and whether the affected unit of work
// may be skipped instead of failing the whole synthesis run.
package exception

import (
	"errors"
	"fmt"
)

// Sentinel errors recognised by callers via errors.Is.
var (
	// ErrStoreUnavailable marks failures talking to the planning store.
	ErrStoreUnavailable = errors.New("planning store unavailable")
	// ErrInvalidSchedule marks an uploaded schedule document that failed validation.
	ErrInvalidSchedule = errors.New("invalid schedule document")
	// ErrScheduleNotFound marks a read of a schedule document that has never been stored.
	ErrScheduleNotFound = errors.New("no schedule uploaded yet")
	// ErrUnknownVariant marks a request for an instance variant that does not exist.
	ErrUnknownVariant = errors.New("unknown instance variant")
)

// PlannerError is the error type returned by planfeed components.
type PlannerError struct {
	// Module indicates where the error occurred (e.g., "store", "config", "synthesis").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// skippable reports whether only the current record is affected.
	skippable bool
}

// NewPlannerError creates a new PlannerError.
func NewPlannerError(module, message string, originalErr error, skippable bool) *PlannerError {
	return &PlannerError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		skippable:   skippable,
	}
}

// NewPlannerErrorf creates a non-skippable PlannerError with a formatted message.
// If the last argument is an error, it becomes the wrapped error and is not used for formatting.
func NewPlannerErrorf(module, format string, a ...interface{}) *PlannerError {
	var originalErr error
	if len(a) > 0 {
		if err, ok := a[len(a)-1].(error); ok {
			originalErr = err
			a = a[:len(a)-1]
		}
	}
	return NewPlannerError(module, fmt.Sprintf(format, a...), originalErr, false)
}

// NewStoreError wraps a store failure so that it matches ErrStoreUnavailable.
func NewStoreError(message string, originalErr error) *PlannerError {
	if originalErr == nil {
		return NewPlannerError("store", message, ErrStoreUnavailable, false)
	}
	return NewPlannerError("store", message, errors.Join(ErrStoreUnavailable, originalErr), false)
}

// Error implements the error interface.
func (e *PlannerError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Is / errors.As.
func (e *PlannerError) Unwrap() error {
	return e.OriginalErr
}

// IsSkippable returns whether this error only affects a single record.
func (e *PlannerError) IsSkippable() bool {
	return e.skippable
}

// IsPlannerError determines if the given error is, or wraps, a PlannerError.
func IsPlannerError(err error) bool {
	var pe *PlannerError
	return errors.As(err, &pe)
}

// IsSkippable reports whether err (or an error it wraps) is a skippable PlannerError.
func IsSkippable(err error) bool {
	var pe *PlannerError
	if errors.As(err, &pe) {
		return pe.IsSkippable()
	}
	return false
}

// ExtractErrorMessage returns the Message of a PlannerError, or err.Error() otherwise.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *PlannerError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
