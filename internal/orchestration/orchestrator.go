package orchestration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/eigscan/internal/cli"
	"github.com/agbru/eigscan/internal/config"
	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/ui"
)

// ScanResult is the outcome of one scan run by the orchestrator, whether it
// compared engines on one problem or ran one engine over a batch.
type ScanResult struct {
	// Name is the display name of the engine that ran the scan.
	Name string
	// Problem is the scanned problem.
	Problem eigen.Problem
	// Report is the scan result. On cancellation it may hold a partial
	// report alongside Err; otherwise it is nil when Err is set.
	Report *eigen.Report
	// Duration is the wall time of the scan.
	Duration time.Duration
	// Err is the error returned by the scanner, if any.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel relative to the number
// of concurrent scans so slow terminals rarely block a scanner.
const ProgressBufferMultiplier = 5

type scanJob struct {
	scanner eigen.Scanner
	problem eigen.Problem
}

// runJobs executes jobs concurrently, at most limit at a time (no limit when
// limit <= 0), while a single goroutine renders their aggregated progress.
// Results keep the order of jobs.
func runJobs(ctx context.Context, jobs []scanJob, opts eigen.Options, limit int, out io.Writer) []ScanResult {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	results := make([]ScanResult, len(jobs))
	progressChan := make(chan eigen.ProgressUpdate, len(jobs)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(jobs), out)

	for i, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			report, err := job.scanner.Scan(ctx, progressChan, i, job.problem, opts)
			results[i] = ScanResult{
				Name:     job.scanner.Name(),
				Problem:  job.problem,
				Report:   report,
				Duration: time.Since(start),
				Err:      err,
			}
			// Failures are recorded per result; one failing engine must not
			// cancel the others.
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// ExecuteScans runs every scanner on the same problem concurrently.
//
// Parameters:
//   - ctx: Cancels all scans.
//   - scanners: The engines to run.
//   - p: The problem every engine scans.
//   - opts: Scan options shared by all engines.
//   - out: Where progress is drawn.
//
// Returns:
//   - []ScanResult: One result per scanner, in the order of scanners.
func ExecuteScans(ctx context.Context, scanners []eigen.Scanner, p eigen.Problem, opts eigen.Options, out io.Writer) []ScanResult {
	jobs := make([]scanJob, len(scanners))
	for i, s := range scanners {
		jobs[i] = scanJob{scanner: s, problem: p}
	}
	return runJobs(ctx, jobs, opts, 0, out)
}

// ExecuteBatch scans every problem of a batch file with one engine, running
// up to GOMAXPROCS problems at a time. Results keep the order of problems.
func ExecuteBatch(ctx context.Context, scanner eigen.Scanner, problems []eigen.Problem, opts eigen.Options, out io.Writer) []ScanResult {
	jobs := make([]scanJob, len(problems))
	for i, p := range problems {
		jobs[i] = scanJob{scanner: scanner, problem: p}
	}
	return runJobs(ctx, jobs, opts, runtime.GOMAXPROCS(0), out)
}

func outputConfig(cfg config.AppConfig) cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		ValuesOnly: cfg.ValuesOnly,
	}
}

// AnalyzeComparisonResults prints a summary table of a multi-engine run,
// cross-checks the eigenpairs of every successful engine and displays the
// agreed report.
//
// Results are sorted in place: successes first, fastest first.
//
// Parameters:
//   - results: The results of ExecuteScans.
//   - cfg: The application configuration.
//   - out: Where the summary is written.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch when engines disagree, or the exit
//     code of the first failure when no engine succeeded.
func AnalyzeComparisonResults(results []ScanResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var reference *ScanResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sEngine%s\t%sDuration%s\t%sEigenvalues%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status, values string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			values = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			values = fmt.Sprint(res.Report.Values())
			successCount++
			if reference == nil {
				reference = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			values, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No engine could complete the scan.\n")
		return apperrors.HandleScanError(firstError, 0, out, cli.CLIColorProvider{})
	}

	want := cli.EigenpairsSignature(reference.Report.Eigenpairs)
	for _, res := range results {
		if res.Err == nil && cli.EigenpairsSignature(res.Report.Eigenpairs) != want {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The engines disagree on the eigenpairs (%s reports %v, %s reports %v).\n",
				reference.Name, reference.Report.Values(), res.Name, res.Report.Values())
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	if err := cli.DisplayReportWithConfig(out, reference.Report, outputConfig(cfg)); err != nil {
		fmt.Fprintf(out, "%sError saving report: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// AnalyzeBatchResults prints the report of every problem of a batch in file
// order. A failing problem does not hide the others.
//
// Returns:
//   - int: ExitSuccess, or the exit code of the first failing problem.
func AnalyzeBatchResults(results []ScanResult, cfg config.AppConfig, out io.Writer) int {
	code := apperrors.ExitSuccess
	display := outputConfig(cfg)
	// Every problem shares the one output file; only the last report would
	// survive, so batch runs print to out only.
	display.OutputFile = ""

	for i, res := range results {
		if !cfg.Quiet {
			name := res.Problem.Name
			if name == "" {
				name = fmt.Sprintf("problem %d", i+1)
			}
			fmt.Fprintf(out, "\n%s=== %s ===%s\n", ui.ColorBold(), name, ui.ColorReset())
		}
		if res.Err != nil {
			c := apperrors.HandleScanError(res.Err, res.Duration, out, cli.CLIColorProvider{})
			if code == apperrors.ExitSuccess {
				code = c
			}
			continue
		}
		if err := cli.DisplayReportWithConfig(out, res.Report, display); err != nil {
			fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		}
	}
	return code
}
