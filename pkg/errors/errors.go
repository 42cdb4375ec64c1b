// Package errors provides structured error types for badger.
//
// Every failure a badge request can run into carries a machine-readable
// [Code] and a short human-readable message. The HTTP layer never turns
// these into status codes; instead [UserMessage] is what ends up printed on
// the error badge.
//
// # Error Codes
//
//   - UNSUPPORTED_FONT, INVALID_*: request validation failures
//   - LAYOUT_FAILED: a text segment could not be measured
//   - RENDER_FAILED: the template engine rejected the render context
//   - INVALID_DATASET, INVALID_CATALOG, INVALID_CONFIG: startup failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidColour, "invalid colour: %s", value)
//	if errors.Is(err, errors.ErrCodeInvalidColour) {
//	    // render an error badge
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Request validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeUnsupportedFont Code = "UNSUPPORTED_FONT"
	ErrCodeInvalidColour   Code = "INVALID_COLOUR"
	ErrCodeInvalidIcon     Code = "INVALID_ICON"

	// Rendering errors
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Startup errors
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidCatalog Code = "INVALID_CATALOG"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// UserMessage returns the message shown to end users.
// For *Error types the code prefix and the cause are dropped; other errors
// are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
