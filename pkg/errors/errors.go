// Package errors provides structured error types for the budgetflow application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP adapter
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: View-parameter validation failures
//   - NOT_FOUND_*: A user-specified entity name has no match in the dataset
//   - MALFORMED_*: Source dataset problems recovered or reported locally
//   - INTERNAL_*: Unexpected internal errors (invariant violations)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFoundMinistry, "ministry %q not in dataset", name)
//	if errors.Is(err, errors.ErrCodeNotFoundMinistry) {
//	    // Handle unresolved name
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedDataset, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// View-parameter validation errors
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Entity resolution errors. A not-found failure is distinct from a
	// generic internal failure and always carries the offending name.
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeNotFoundMinistry  Code = "NOT_FOUND_MINISTRY"
	ErrCodeNotFoundProject   Code = "NOT_FOUND_PROJECT"
	ErrCodeNotFoundRecipient Code = "NOT_FOUND_RECIPIENT"

	// Dataset errors
	ErrCodeMalformedDataset Code = "MALFORMED_DATASET"
	ErrCodeDatasetSource    Code = "DATASET_SOURCE_ERROR"

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

// IsNotFound reports whether err carries any of the NOT_FOUND_* codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeNotFoundMinistry, ErrCodeNotFoundProject, ErrCodeNotFoundRecipient:
		return true
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
