// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors and timeouts
//   - Validation errors (100-199): Invalid parameters, periods and ticks
//   - Data/Resource errors (200-299): Store reads, writes and exports
//   - Alert errors (400-499): Alert creation and trigger persistence
//   - Backtest errors (600-699): Simulation cancellation and history loading
//   - Market data errors (700-799): Tick source failures
//   - Prediction errors (800-899): Remote prediction service failures
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidAlertCondition, "unknown condition %q", cond)
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to load ticks", cause)
//	if errors.HasCode(err, errors.ErrCodeInvalidAlertCondition) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode extracts the ErrorCode from an error chain.
// Returns ErrCodeUnknown if no *Error is found.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsValidation reports whether err is a caller input problem rather than a
// system failure. The API layer maps these to 400 responses.
func IsValidation(err error) bool {
	code := GetCode(err)

	return code.Category() == "validation" || code == ErrCodeInvalidAlertCondition || code == ErrCodeInvalidAlertRequest
}
