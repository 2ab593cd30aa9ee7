// Package errors provides structured error types for the familytree module.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the reference backend and the view core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the outcomes the viewer has to distinguish:
//   - LOAD_FAILED: the tree root or a person detail could not be fetched
//   - EMPTY_TREE: the backend returned no tree; an empty state is shown
//   - MISSING_FIELD: a record lacks a required field and was coerced
//   - USE_PLACEHOLDER: a record has no photo; the default asset is used
//   - INVALID_*: input validation failures
//   - NOT_FOUND: a person id does not exist
//   - INTERNAL: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyTree, "backend returned no root")
//	if errors.Is(err, errors.ErrCodeEmptyTree) {
//	    // Render the empty state
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoadFailed, origErr, "fetch person %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Loading errors
	ErrCodeLoadFailed Code = "LOAD_FAILED"
	ErrCodeEmptyTree  Code = "EMPTY_TREE"

	// Record-shape conditions. These are reported, never fatal.
	ErrCodeMissingField   Code = "MISSING_FIELD"
	ErrCodeUsePlaceholder Code = "USE_PLACEHOLDER"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Warning is a non-fatal condition attached to a record while it is being
// wrapped or rendered, such as a coerced missing name.
type Warning struct {
	Code   Code   `json:"code"`
	Person string `json:"person,omitempty"` // Person id the warning applies to
	Field  string `json:"field,omitempty"`
}

// String formats the warning for log output.
func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s (person %s)", w.Code, w.Person)
	}
	return fmt.Sprintf("%s: %s (person %s)", w.Code, w.Field, w.Person)
}
