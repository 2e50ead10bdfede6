// Package apperrors defines the tagged error variants shared by the gateway,
// the page handlers and the error middleware.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error for handling decisions.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the requested meal does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUpstream indicates TheMealDB could not be reached or answered badly.
	ErrCodeUpstream ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeCanceled indicates the inbound request went away mid-call.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates a defect in the application itself.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries a code, a human readable message, the cause and
// optional context for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext creates a StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeNotFound
}

// IsCanceled reports whether err is a cancellation error.
func IsCanceled(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeCanceled
}
