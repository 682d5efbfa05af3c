// Package errors provides structured error types for canopy.
//
// Every failure the renderer can report is a typed, non-fatal value:
//   - Consistent error handling across library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - The offending field and constraint for caller-facing messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The rendering core reports five domain codes:
//   - SHAPE_ERROR: malformed canopy outline
//   - PARAMETER_ERROR: out-of-range botanical parameters
//   - PALETTE_ERROR: undefined habit/season/winter-interest combination
//   - COMPOSITION_ERROR: outline does not fit the scale box
//   - RASTERIZATION_ERROR: the bitmap conversion failed
//
// Request boundaries add INVALID_* codes for enumeration and structural
// validation, NOT_FOUND for catalog lookups and INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShape, "outline has %d points, need at least 24", n).WithField("outline")
//	if errors.Is(err, errors.ErrCodeShape) {
//	    // Handle malformed outline
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRasterization, origErr, "rasterize %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Rendering core errors
	ErrCodeShape         Code = "SHAPE_ERROR"
	ErrCodeParameter     Code = "PARAMETER_ERROR"
	ErrCodePalette       Code = "PALETTE_ERROR"
	ErrCodeComposition   Code = "COMPOSITION_ERROR"
	ErrCodeRasterization Code = "RASTERIZATION_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidSeason Code = "INVALID_SEASON"
	ErrCodeInvalidScale  Code = "INVALID_SCALE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Field   string // Offending input field (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Field != "" {
		prefix += " [" + e.Field + "]"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithField records the input field the error refers to and returns e.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
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

// FieldOf returns the offending field recorded on err, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
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

// IsValidation reports whether err stems from bad caller input rather than
// a failure inside the renderer or one of its collaborators.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeShape, ErrCodeParameter, ErrCodePalette, ErrCodeComposition,
		ErrCodeInvalidInput, ErrCodeInvalidStyle, ErrCodeInvalidSeason,
		ErrCodeInvalidScale, ErrCodeInvalidFormat, ErrCodeInvalidName, ErrCodeInvalidPath:
		return true
	}
	return false
}
