package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/agbru/eigscan/internal/cli"
	"github.com/agbru/eigscan/internal/config"
	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/logging"
	"github.com/agbru/eigscan/internal/orchestration"
	"github.com/agbru/eigscan/internal/server"
	"github.com/agbru/eigscan/internal/ui"
	"github.com/agbru/eigscan/pkg/models"
)

// Application is one eigscan invocation: the parsed configuration and the
// engines it runs with.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides the determinant engines.
	Factory eigen.EngineFactory
	// ErrWriter receives errors, logs and, in JSON mode, prompts.
	ErrWriter io.Writer
	// In feeds the interactive prompts and the REPL. Nil means os.Stdin.
	In io.Reader
}

// New creates an Application by parsing command-line arguments.
//
// Parameters:
//   - args: The command-line arguments including the program name (os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: flag.ErrHelp, a parse error, or a ConfigError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := eigen.GlobalFactory()

	programName := "eigscan"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run dispatches to the configured mode: completion script, HTTP server,
// REPL, or a one-shot scan of a matrix literal, a problem file or a matrix
// read from prompts.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	outFile, _ := out.(*os.File)
	ui.InitThemeFor(a.Config.NoColor, outFile)

	errFile, _ := a.ErrWriter.(*os.File)
	if err := logging.Setup(a.Config.LogLevel, a.ErrWriter, ui.IsTerminal(errFile)); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if a.Config.ServerMode {
		return a.runServer(out)
	}
	if a.Config.Interactive {
		return a.runREPL(out)
	}
	return a.runScan(ctx, out)
}

func (a *Application) input() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

func (a *Application) colors() apperrors.ColorProvider {
	return cli.CLIColorProvider{}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer(out io.Writer) int {
	srv := server.NewServer(a.Factory, a.Config,
		server.WithLogger(logging.NewLogger(out, "server")),
		server.WithVersion(Version),
	)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultEngine: a.Config.Engine,
		Timeout:       a.Config.Timeout,
		MaxDim:        a.Config.MaxDim,
		Canonical:     a.Config.Canonical,
		ValuesOnly:    a.Config.ValuesOnly,
	})
	repl.SetInput(a.input())
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// loadProblems returns the problems selected by -file, -matrix or, when
// neither is given, read from the classic prompts. Every matrix must fit
// -max-dim.
func (a *Application) loadProblems(out io.Writer) ([]eigen.Problem, error) {
	var problems []eigen.Problem
	switch {
	case a.Config.File != "":
		ps, err := cli.LoadProblems(a.Config.File, a.Config.Lo, a.Config.Hi)
		if err != nil {
			return nil, err
		}
		problems = ps
	case a.Config.Matrix != "":
		m, err := cli.ParseMatrixLiteral(a.Config.Matrix)
		if err != nil {
			return nil, apperrors.InputError{Source: "-matrix", Cause: err}
		}
		problems = []eigen.Problem{{Matrix: m, Lo: a.Config.Lo, Hi: a.Config.Hi}}
	default:
		promptOut := out
		if a.Config.JSONOutput {
			promptOut = a.ErrWriter
		}
		p, err := cli.NewPrompter(a.input(), promptOut, a.Config.MaxDim).ReadProblem()
		if err != nil {
			return nil, err
		}
		problems = []eigen.Problem{p}
	}

	for i, p := range problems {
		if n := p.Matrix.Rows(); n > a.Config.MaxDim {
			label := p.Name
			if label == "" {
				label = fmt.Sprintf("problem %d", i+1)
			}
			return nil, apperrors.NewConfigError("%s: matrix order %d exceeds -max-dim %d", label, n, a.Config.MaxDim)
		}
	}
	return problems, nil
}

// runScan runs the one-shot CLI mode.
func (a *Application) runScan(ctx context.Context, out io.Writer) int {
	// The timeout and signal handling cover the scan only: prompts may take
	// longer than -timeout, and Ctrl+C at a prompt must still end the process.
	problems, err := a.loadProblems(out)
	if err != nil {
		return apperrors.HandleScanError(err, 0, a.ErrWriter, a.colors())
	}

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	scanners := cli.GetScannersToRun(a.Config, a.Factory)
	if len(scanners) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no engine named %q\n", a.Config.Engine)
		return apperrors.ExitErrorConfig
	}

	if a.Config.DetOnly {
		return a.runDeterminants(ctx, scanners, problems, out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}
	opts := a.Config.ToScanOptions()

	if len(problems) == 1 {
		p := problems[0]
		if !a.Config.JSONOutput && !a.Config.Quiet {
			cli.PrintExecutionConfig(a.Config, p, out)
			cli.PrintExecutionMode(scanners, out)
		}
		results := orchestration.ExecuteScans(ctx, scanners, p, opts, progressOut)
		if a.Config.JSONOutput {
			return printJSONResults(results, out)
		}
		if len(results) == 1 {
			return a.displaySingle(results[0], out)
		}
		return orchestration.AnalyzeComparisonResults(results, a.Config, out)
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		fmt.Fprintf(out, "--- Batch of %d problems from %s ---\n", len(problems), a.Config.File)
		cli.PrintExecutionMode(scanners, out)
	}

	if len(scanners) == 1 {
		results := orchestration.ExecuteBatch(ctx, scanners[0], problems, opts, progressOut)
		if a.Config.JSONOutput {
			return printJSONResults(results, out)
		}
		return orchestration.AnalyzeBatchResults(results, a.Config, out)
	}

	// Comparison of every engine on every problem, one problem at a time.
	code := apperrors.ExitSuccess
	var all []orchestration.ScanResult
	for i, p := range problems {
		results := orchestration.ExecuteScans(ctx, scanners, p, opts, progressOut)
		if a.Config.JSONOutput {
			all = append(all, results...)
			continue
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("problem %d", i+1)
		}
		fmt.Fprintf(out, "\n%s=== %s ===%s\n", cli.ColorBold(), name, cli.ColorReset())
		if c := orchestration.AnalyzeComparisonResults(results, a.Config, out); code == apperrors.ExitSuccess {
			code = c
		}
	}
	if a.Config.JSONOutput {
		return printJSONResults(all, out)
	}
	return code
}

// displaySingle prints the outcome of a single-engine scan.
func (a *Application) displaySingle(res orchestration.ScanResult, out io.Writer) int {
	if res.Err != nil {
		return apperrors.HandleScanError(res.Err, res.Duration, out, a.colors())
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\nScan completed in %s%s%s (%d candidates).\n",
			cli.ColorGreen(), cli.FormatExecutionDuration(res.Duration), cli.ColorReset(), res.Report.Scanned)
	}
	err := cli.DisplayReportWithConfig(out, res.Report, cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ValuesOnly: a.Config.ValuesOnly,
	})
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// determinantResult is one det(A) computation in JSON output.
type determinantResult struct {
	Name        string      `json:"name,omitempty"`
	Engine      string      `json:"engine"`
	Determinant *models.Int `json:"determinant,omitempty"`
	Duration    string      `json:"duration"`
	Error       string      `json:"error,omitempty"`
}

// runDeterminants prints det(A) of every problem with every selected
// engine. Engines that disagree on a determinant make the run fail with
// ExitErrorMismatch.
func (a *Application) runDeterminants(ctx context.Context, scanners []eigen.Scanner, problems []eigen.Problem, out io.Writer) int {
	code := apperrors.ExitSuccess
	setCode := func(c int) {
		if code == apperrors.ExitSuccess {
			code = c
		}
	}
	var results []determinantResult

	for _, p := range problems {
		if len(problems) > 1 && p.Name != "" && !a.Config.Quiet && !a.Config.JSONOutput {
			fmt.Fprintf(out, "\n%s=== %s ===%s\n", cli.ColorBold(), p.Name, cli.ColorReset())
		}
		var reference *big.Int
		for _, s := range scanners {
			start := time.Now()
			det, err := s.Determinant(ctx, p.Matrix)
			duration := time.Since(start)

			res := determinantResult{Name: p.Name, Engine: s.Name(), Duration: duration.String()}
			if err != nil {
				res.Error = err.Error()
				setCode(apperrors.ExitCode(err))
			} else {
				v := models.NewInt(det)
				res.Determinant = &v
				if reference == nil {
					reference = det
				} else if reference.Cmp(det) != 0 {
					setCode(apperrors.ExitErrorMismatch)
				}
			}
			results = append(results, res)

			if a.Config.JSONOutput {
				continue
			}
			if err != nil {
				fmt.Fprintf(out, "%s: ", s.Name())
				apperrors.HandleScanError(err, duration, out, a.colors())
				continue
			}
			cli.DisplayDeterminant(out, det, s.Name(), duration, a.Config.Quiet)
		}
	}

	if a.Config.JSONOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return apperrors.ExitErrorGeneric
		}
	} else if code == apperrors.ExitErrorMismatch {
		fmt.Fprintf(out, "\n%sCRITICAL ERROR! The engines disagree on the determinant.%s\n", cli.ColorRed(), cli.ColorReset())
	}
	return code
}

// printJSONResults writes results as a JSON array. The exit code reflects
// the first failed scan, or a disagreement between engines on one problem.
func printJSONResults(results []orchestration.ScanResult, out io.Writer) int {
	output := make([]models.ScanResult, len(results))
	code := apperrors.ExitSuccess
	firstSignature := make(map[string]string)

	for i, res := range results {
		var report *eigen.Report
		if res.Err == nil {
			report = res.Report
		}
		output[i] = cli.ReportToModel(report, res.Err)
		output[i].Name = res.Problem.Name
		output[i].Engine = res.Name
		output[i].Lo, output[i].Hi = res.Problem.Lo, res.Problem.Hi
		output[i].Duration = res.Duration.String()
		if output[i].Eigenvalues == nil {
			output[i].Eigenvalues = []models.Eigenpair{}
		}

		if res.Err != nil {
			if code == apperrors.ExitSuccess {
				code = apperrors.ExitCode(res.Err)
			}
			continue
		}
		key := fmt.Sprintf("%s|%d|%d|%s", res.Problem.Name, res.Problem.Lo, res.Problem.Hi, res.Problem.Matrix)
		sig := cli.EigenpairsSignature(res.Report.Eigenpairs)
		if prev, ok := firstSignature[key]; !ok {
			firstSignature[key] = sig
		} else if prev != sig && code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorMismatch
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return code
}

// IsHelpError reports whether err is the flag.ErrHelp returned for -h.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
