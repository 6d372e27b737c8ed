// Package config holds the eigscan configuration: the AppConfig structure,
// command-line parsing, environment overrides and validation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by eigscan.
const EnvPrefix = "EIGSCAN_"

// Default configuration values.
const (
	// DefaultLo and DefaultHi bound the λ scan when no range is given.
	DefaultLo int64 = -100
	DefaultHi int64 = 100
	// DefaultMaxDim caps the matrix order accepted from users.
	DefaultMaxDim = 4
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 1 * time.Minute
	// DefaultPort is the server port.
	DefaultPort = "8080"
	// DefaultEngine is the determinant engine.
	DefaultEngine = "bareiss"
	// DefaultLogLevel is the zerolog level name.
	DefaultLogLevel = "info"
	// DefaultRateLimit is the sustained per-client request rate of the server.
	DefaultRateLimit = 10.0
	// DefaultRateBurst is the per-client burst of the server.
	DefaultRateBurst = 20
	// DefaultMaxRangeWidth caps hi-lo+1 for server requests.
	DefaultMaxRangeWidth = 100_000
)

// AppConfig aggregates the parsed configuration.
type AppConfig struct {
	// Matrix is a matrix literal such as "2,0;0,3".
	Matrix string
	// File is a YAML or JSON problem file; mutually exclusive with Matrix.
	File string
	// Lo and Hi bound the λ scan (inclusive). Lo > Hi is an empty scan.
	Lo int64
	Hi int64
	// Engine is a registered engine name or "all" for comparison mode.
	Engine string
	// DetOnly prints det(A) and skips the scan.
	DetOnly bool
	// ValuesOnly reports eigenvalues without eigenvectors.
	ValuesOnly bool
	// Canonical makes the first non-zero entry of every eigenvector positive.
	Canonical bool
	// MaxDim is the largest accepted matrix order.
	MaxDim int
	// Timeout bounds the whole run.
	Timeout time.Duration

	JSONOutput bool
	Quiet      bool
	Verbose    bool
	// OutputFile, if set, receives a copy of the report.
	OutputFile string
	// Interactive starts the REPL.
	Interactive bool
	NoColor     bool
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string
	// Completion generates a shell completion script ("bash", "zsh", "fish").
	Completion string

	ServerMode bool
	Port       string
	// RateLimit and RateBurst configure the server's per-client limiter.
	RateLimit float64
	RateBurst int
	// MaxRangeWidth caps the number of λ candidates per server request.
	MaxRangeWidth uint64
}

// ToScanOptions converts the configuration into eigen.Options.
func (c AppConfig) ToScanOptions() eigen.Options {
	return eigen.Options{
		Canonical:  c.Canonical,
		ValuesOnly: c.ValuesOnly,
	}
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableEngines: The registered engine names.
//
// Returns:
//   - error: A ConfigError describing the first problem found, or nil.
func (c AppConfig) Validate(availableEngines []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxDim < 1 {
		return apperrors.NewConfigError("max-dim must be at least 1, got %d", c.MaxDim)
	}
	if c.Matrix != "" && c.File != "" {
		return apperrors.NewConfigError("-matrix and -file are mutually exclusive")
	}
	if c.ServerMode && c.Interactive {
		return apperrors.NewConfigError("-server and -interactive are mutually exclusive")
	}
	if c.DetOnly && c.ValuesOnly {
		return apperrors.NewConfigError("-det and -values are mutually exclusive")
	}
	if c.RateLimit <= 0 || c.RateBurst < 1 {
		return apperrors.NewConfigError("rate limit must be positive with a burst of at least 1")
	}
	if c.MaxRangeWidth == 0 {
		return apperrors.NewConfigError("max-range must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return apperrors.NewConfigError("unrecognized log level: '%s'", c.LogLevel)
	}
	if c.Engine == "all" {
		return nil
	}
	for _, e := range availableEngines {
		if e == c.Engine {
			return nil
		}
	}
	return apperrors.NewConfigError("unrecognized engine: '%s'. Valid engines are: 'all' or [%s]", c.Engine, strings.Join(availableEngines, ", "))
}

// ParseConfig parses args into an AppConfig, applies EIGSCAN_* environment
// overrides for flags that were not set, and validates the result.
//
// Parameters:
//   - programName: The program name used in the usage screen.
//   - args: The arguments without the program name.
//   - errorWriter: Receives parse errors and the usage screen.
//   - availableEngines: The registered engine names.
//
// Returns:
//   - AppConfig: The configuration.
//   - error: flag.ErrHelp for -h, a parse error, or an invalid configuration.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableEngines []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	engineHelp := fmt.Sprintf("Determinant engine: one of [%s], or 'all' to compare them.", strings.Join(availableEngines, ", "))

	config := AppConfig{}
	fs.StringVar(&config.Matrix, "matrix", "", "Matrix literal, rows separated by ';' (e.g. \"2,0;0,3\").")
	fs.StringVar(&config.Matrix, "m", "", "Matrix literal (shorthand).")
	fs.StringVar(&config.File, "file", "", "YAML or JSON problem file (one problem or a 'problems' list).")
	fs.StringVar(&config.File, "f", "", "Problem file (shorthand).")
	fs.Int64Var(&config.Lo, "lo", DefaultLo, "Lower bound of the eigenvalue search (inclusive).")
	fs.Int64Var(&config.Hi, "hi", DefaultHi, "Upper bound of the eigenvalue search (inclusive).")
	fs.StringVar(&config.Engine, "engine", DefaultEngine, engineHelp)
	fs.BoolVar(&config.DetOnly, "det", false, "Only compute the determinant of the matrix.")
	fs.BoolVar(&config.ValuesOnly, "values", false, "Report eigenvalues without eigenvectors.")
	fs.BoolVar(&config.Canonical, "canonical", false, "Make the first non-zero entry of each eigenvector positive.")
	fs.IntVar(&config.MaxDim, "max-dim", DefaultMaxDim, "Largest accepted matrix order.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Display the matrix and timing details.")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start an interactive session (REPL).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.Float64Var(&config.RateLimit, "rate-limit", DefaultRateLimit, "Server requests per second allowed per client.")
	fs.IntVar(&config.RateBurst, "rate-burst", DefaultRateBurst, "Server request burst allowed per client.")
	fs.Uint64Var(&config.MaxRangeWidth, "max-range", DefaultMaxRangeWidth, "Largest number of λ candidates per server request.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Engine = strings.ToLower(config.Engine)
	config.LogLevel = strings.ToLower(config.LogLevel)
	if err := config.Validate(availableEngines); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
