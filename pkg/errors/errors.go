// Package errors provides structured error types for fontsmith.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (configs, sources, policies)
//   - *_NOT_FOUND: Unknown glyphs, fonts or files
//   - DUPLICATE_*, READ_ONLY_FONT: Registry constraint violations
//   - CODES_EXHAUSTED: The Private Use Area has no free code left
//   - ENCODE_FAILED, STORE_ERROR, INTERNAL_ERROR: Collaborator failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGlyphNotFound, "no glyph with uid %s", uid)
//	if errors.Is(err, errors.ErrCodeGlyphNotFound) {
//	    // Handle unknown glyph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidPolicy Code = "INVALID_POLICY"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGlyphNotFound Code = "GLYPH_NOT_FOUND"
	ErrCodeFontNotFound  Code = "FONT_NOT_FOUND"

	// Registry constraint errors
	ErrCodeDuplicateUID  Code = "DUPLICATE_UID"
	ErrCodeDuplicateFont Code = "DUPLICATE_FONT"
	ErrCodeReadOnlyFont  Code = "READ_ONLY_FONT"

	// Resource exhaustion
	ErrCodeCodesExhausted Code = "CODES_EXHAUSTED"

	// Collaborator and internal errors
	ErrCodeEncodeFailed Code = "ENCODE_FAILED"
	ErrCodeStore        Code = "STORE_ERROR"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// HTTPStatus maps an error code to the status the HTTP API answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidSource,
		ErrCodeInvalidPolicy, ErrCodeInvalidPath, ErrCodeInvalidFormat, ErrCodeInvalidName:
		return 400
	case ErrCodeNotFound, ErrCodeGlyphNotFound, ErrCodeFontNotFound:
		return 404
	case ErrCodeDuplicateUID, ErrCodeDuplicateFont, ErrCodeReadOnlyFont:
		return 409
	case ErrCodeCodesExhausted:
		return 507
	default:
		return 500
	}
}
