package apperrors

import (
	"context"
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--threshold"),
			expected: "invalid value 42 for flag --threshold",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestScanError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		engine      string
		cause       error
		expectedMsg string
		checkIs     error
	}{
		{
			name:        "Error without engine returns cause message",
			cause:       errors.New("division by zero"),
			expectedMsg: "division by zero",
		},
		{
			name:        "Error with engine is prefixed",
			engine:      "Bareiss",
			cause:       errors.New("boom"),
			expectedMsg: "Bareiss: boom",
		},
		{
			name:        "errors.Is works through the wrapper",
			engine:      "Cofactor (Laplace)",
			cause:       context.Canceled,
			expectedMsg: "Cofactor (Laplace): context canceled",
			checkIs:     context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ScanError{Engine: tt.engine, Cause: tt.cause}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if err.Unwrap() != tt.cause {
				t.Error("Unwrap should return the original cause")
			}
			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestInputError(t *testing.T) {
	t.Parallel()
	cause := errors.New("row 2 has 1 entries, want 2")
	err := error(InputError{Source: "-matrix", Cause: cause})
	if err.Error() != "-matrix: row 2 has 1 entries, want 2" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("InputError should unwrap to its cause")
	}
	var inputErr InputError
	if !errors.As(WrapError(err, "loading problem"), &inputErr) || inputErr.Source != "-matrix" {
		t.Error("errors.As should find the InputError through WrapError")
	}
}

func TestServerError(t *testing.T) {
	t.Parallel()
	bind := errors.New("bind: address already in use")

	err := NewServerError("cannot listen on :8080", bind)
	if got, want := err.Error(), "cannot listen on :8080: bind: address already in use"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, bind) {
		t.Error("ServerError should unwrap to its cause")
	}
	var serverErr ServerError
	if !errors.As(WrapError(err, "start"), &serverErr) || serverErr.Message != "cannot listen on :8080" {
		t.Errorf("errors.As should find the ServerError, got %+v", serverErr)
	}

	bare := ServerError{Message: "server stopped"}
	if bare.Error() != "server stopped" || bare.Unwrap() != nil {
		t.Errorf("a ServerError without cause should print its message only, got %q", bare.Error())
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		field       string
		message     string
		value       any
		expectedMsg string
		checkTypeAs bool
	}{
		{
			name:        "Error with field",
			field:       "hi",
			message:     "range too wide",
			expectedMsg: "validation error for 'hi': range too wide",
		},
		{
			name:        "Error without field",
			field:       "",
			message:     "invalid input",
			expectedMsg: "validation error: invalid input",
		},
		{
			name:        "NewValidationError creates error",
			field:       "engine",
			message:     "unknown engine",
			value:       "invalid",
			expectedMsg: "validation error for 'engine': unknown engine",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error
			if tt.checkTypeAs {
				err = NewValidationError(tt.field, tt.message, tt.value)
			} else {
				err = ValidationError{Field: tt.field, Message: tt.message, Value: tt.value}
			}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}

			if tt.checkTypeAs {
				var valErr ValidationError
				if !errors.As(err, &valErr) {
					t.Error("expected error to be ValidationError type")
				}
				if valErr.Field != tt.field || valErr.Value != tt.value {
					t.Errorf("unexpected validation error: %+v", valErr)
				}
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load problems",
			expectedMsg: "failed to load problems: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to connect to %s:%d",
			args:        []any{"localhost", 8080},
			expectedMsg: "failed to connect to localhost:8080: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}

			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}

			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsContextError(tt.err)
			if result != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	want := []struct {
		code  int
		value int
	}{
		{ExitSuccess, 0},
		{ExitErrorGeneric, 1},
		{ExitErrorTimeout, 2},
		{ExitErrorMismatch, 3},
		{ExitErrorConfig, 4},
		{ExitErrorInconsistent, 5},
		{ExitErrorCanceled, 130},
	}
	for _, w := range want {
		if w.code != w.value {
			t.Errorf("exit code %d, want %d", w.code, w.value)
		}
	}
}
