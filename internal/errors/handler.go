package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
	"github.com/agbru/eigscan/internal/rational"
)

// ColorProvider supplies terminal color codes without importing the ui
// package.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider provides no color codes.
type DefaultColorProvider struct{}

func (d DefaultColorProvider) Yellow() string { return "" }
func (d DefaultColorProvider) Red() string    { return "" }
func (d DefaultColorProvider) Reset() string  { return "" }

// ExitCode maps an error to the process exit code without printing anything.
func ExitCode(err error) int {
	var cfg ConfigError
	var input InputError
	var validation ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, eigen.ErrInconsistentSingularity):
		return ExitErrorInconsistent
	case errors.As(err, &cfg), errors.As(err, &input), errors.As(err, &validation),
		errors.Is(err, linalg.ErrMalformedMatrix), errors.Is(err, eigen.ErrOrderUnsupported):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleScanError prints a status line describing a failed scan and returns
// the matching exit code.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the scan ran before failing; 0 omits it.
//   - out: Destination of the message.
//   - colors: Color codes; nil disables colors.
//
// Returns:
//   - int: The exit code for err.
func HandleScanError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	code := ExitCode(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
	case ExitErrorInconsistent:
		fmt.Fprintf(out, "%sStatus: Inconsistent result%s.%s %v\n", colors.Red(), suffix, colors.Reset(), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "Status: Invalid input. %v\n", err)
	default:
		if errors.Is(err, rational.ErrDivideByZero) || errors.Is(err, linalg.ErrInexactDivision) {
			fmt.Fprintf(out, "%sStatus: Internal arithmetic error%s.%s %v\n", colors.Red(), suffix, colors.Reset(), err)
			break
		}
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
