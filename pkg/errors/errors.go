// Package errors provides structured error types for the pipeviz engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP façade
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending identifiers
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// The engine distinguishes three situations:
//   - Validation errors (CONFIG_*): the document is structurally invalid and
//     loading aborts entirely; no partial graph is installed.
//   - Input errors (NODE_NOT_FOUND, INVALID_SELECTION, ...): a request names
//     entities that don't exist or don't qualify. These are returned as
//     values so callers can render the message; they never unwind past the
//     caller.
//   - Degenerate-but-valid results (no impact, nothing to backfill, no
//     numeric attributes) are NOT errors - analyses return nil records for
//     those, distinct from an error.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfigInvalid, "pipeline %d has no name", i)
//	if errors.Is(err, errors.ErrCodeConfigInvalid) {
//	    // Handle validation error
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors - raised at load time, abort loading.
	ErrCodeConfigInvalid Code = "CONFIG_INVALID"
	ErrCodeConfigDecode  Code = "CONFIG_DECODE"

	// Input errors - returned as values naming the offending identifiers.
	ErrCodeNodeNotFound      Code = "NODE_NOT_FOUND"
	ErrCodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"
	ErrCodeInvalidSelection  Code = "INVALID_SELECTION"
	ErrCodeMissingLink       Code = "MISSING_AIRFLOW_LINK"

	// Internal errors - unexpected conditions.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, optional cause, and the
// identifiers the request named that caused the failure.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Human-readable message
	Names   []string // Offending identifiers, if any (e.g. non-pipeline selections)
	Cause   error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Names) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Names, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithNames creates an Error carrying the offending identifiers.
// The names are appended to the rendered message and exposed to callers
// (the HTTP façade serializes them alongside the code).
func WithNames(code Code, names []string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Names:   names,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetNames extracts the offending identifiers from an error, if available.
func GetNames(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Names
	}
	return nil
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (with names) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if len(e.Names) > 0 {
			return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Names, ", "))
		}
		return e.Message
	}
	return err.Error()
}
