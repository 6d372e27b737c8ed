// Package apperrors defines the application-level error types of eigscan and
// the mapping from errors to process exit codes.
//
// All types implement Unwrap where they carry a cause, so callers can keep
// using errors.Is and errors.As against the sentinel errors of the rational,
// linalg and eigen packages.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess           = 0   // Successful execution.
	ExitErrorGeneric      = 1   // Unclassified failure.
	ExitErrorTimeout      = 2   // The -timeout limit was reached.
	ExitErrorMismatch     = 3   // Engines disagreed in comparison mode.
	ExitErrorConfig       = 4   // Invalid flags, environment or input matrix.
	ExitErrorInconsistent = 5   // A zero determinant produced an empty null space.
	ExitErrorCanceled     = 130 // Interrupted by SIGINT.
)

// ConfigError is a user configuration error such as an invalid flag value.
type ConfigError struct {
	Message string
}

// Error returns the message.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// InputError reports a matrix or range that could not be read or parsed,
// from a flag, a problem file or the interactive prompt.
type InputError struct {
	// Source names where the input came from, e.g. "-matrix" or a file path.
	Source string
	Cause  error
}

// Error returns "<source>: <cause>".
func (e InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Cause)
}

// Unwrap returns the cause.
func (e InputError) Unwrap() error { return e.Cause }

// ScanError wraps a failure of one engine's scan and keeps the engine name
// for the comparison summary.
type ScanError struct {
	Engine string
	Cause  error
}

// Error returns the cause's message, prefixed with the engine when known.
func (e ScanError) Error() string {
	if e.Engine == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Engine, e.Cause)
}

// Unwrap returns the cause.
func (e ScanError) Unwrap() error { return e.Cause }

// ServerError is an error of the HTTP server component.
type ServerError struct {
	Message string
	Cause   error
}

// Error combines the message and the cause, if any.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause, or nil.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error (can be nil).
//
// Returns:
//   - error: A new ServerError.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps err with a formatted context message using %w. It returns
// nil when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError is an invalid field in an API request or in the
// configuration.
type ValidationError struct {
	Field   string
	Message string
	// Value is the rejected value, when useful for the caller.
	Value any
}

// Error returns the message, naming the field when set.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
