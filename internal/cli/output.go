package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
	"github.com/agbru/eigscan/pkg/models"
)

// NoEigenvaluesMessage is printed when a scan finds nothing.
const NoEigenvaluesMessage = "No integer eigenvalues in range"

// OutputConfig selects how reports are rendered.
type OutputConfig struct {
	// OutputFile, if set, receives an uncolored copy of the report.
	OutputFile string
	Quiet      bool
	// Verbose adds the matrix, the range and timing to the report.
	Verbose    bool
	ValuesOnly bool
}

// palette carries the escape codes used by writeReport; the zero value
// renders plain text.
type palette struct {
	value, bold, reset string
}

func themePalette() palette {
	return palette{value: ColorValue(), bold: ColorBold(), reset: ColorReset()}
}

// writeReport renders the eigenpairs of r:
//
//	Integer eigenvalues and eigenvectors (basis):
//
//	lambda = 2
//	  v1 = [1, 0]
//
// or, for values-only scans, one eigenvalue per line.
func writeReport(w io.Writer, r *eigen.Report, valuesOnly bool, c palette) {
	if valuesOnly {
		fmt.Fprintf(w, "\n%sEigenvalues (integers found):%s\n", c.bold, c.reset)
		for _, p := range r.Eigenpairs {
			fmt.Fprintf(w, "%s%d%s\n", c.value, p.Value, c.reset)
		}
	} else {
		fmt.Fprintf(w, "\n%sInteger eigenvalues and eigenvectors (basis):%s\n", c.bold, c.reset)
		for _, p := range r.Eigenpairs {
			fmt.Fprintf(w, "\nlambda = %s%d%s\n", c.value, p.Value, c.reset)
			for i, v := range p.Basis {
				fmt.Fprintf(w, "  v%d = %s\n", i+1, linalg.FormatVector(v))
			}
		}
	}
	if len(r.Eigenpairs) == 0 {
		fmt.Fprintln(w, NoEigenvaluesMessage)
	}
}

// DisplayReport prints r in human form.
func DisplayReport(out io.Writer, r *eigen.Report, cfg OutputConfig) {
	if cfg.Verbose {
		if r.Problem.Name != "" {
			fmt.Fprintf(out, "Problem: %s%s%s\n", ColorBold(), r.Problem.Name, ColorReset())
		}
		fmt.Fprintf(out, "Matrix: %s\n", r.Problem.Matrix)
		fmt.Fprintf(out, "Range: [%d, %d], %s%d%s candidates scanned with %s in %s%s%s\n",
			r.Problem.Lo, r.Problem.Hi, ColorCyan(), r.Scanned, ColorReset(),
			r.Engine, ColorGreen(), FormatExecutionDuration(r.Duration), ColorReset())
	}
	writeReport(out, r, cfg.ValuesOnly, themePalette())
}

// FormatQuietReport returns the eigenvalues on one line, separated by spaces.
// The line is empty when none were found.
func FormatQuietReport(r *eigen.Report) string {
	values := r.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, " ")
}

// DisplayDeterminant prints det(A).
func DisplayDeterminant(out io.Writer, det *big.Int, engine string, duration time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintln(out, det.String())
		return
	}
	fmt.Fprintf(out, "det(A) = %s%s%s\n", ColorValue(), det.String(), ColorReset())
	fmt.Fprintf(out, "Computed with %s in %s%s%s.\n", engine, ColorGreen(), FormatExecutionDuration(duration), ColorReset())
}

// DisplayReportWithConfig renders r according to cfg and saves it when
// cfg.OutputFile is set.
func DisplayReportWithConfig(out io.Writer, r *eigen.Report, cfg OutputConfig) error {
	if cfg.Quiet {
		fmt.Fprintln(out, FormatQuietReport(r))
	} else {
		DisplayReport(out, r, cfg)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteReportToFile(r, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n", ColorGreen(), ColorCyan(), cfg.OutputFile, ColorReset())
	}
	return nil
}

// WriteReportToFile writes an uncolored report with a metadata header to
// cfg.OutputFile, creating parent directories as needed.
func WriteReportToFile(r *eigen.Report, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Integer Eigenvalue Scan\n")
	fmt.Fprintf(f, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	if r.Problem.Name != "" {
		fmt.Fprintf(f, "# Problem: %s\n", r.Problem.Name)
	}
	fmt.Fprintf(f, "# Engine: %s\n", r.Engine)
	fmt.Fprintf(f, "# Duration: %s\n", r.Duration)
	fmt.Fprintf(f, "# Range: [%d, %d]\n", r.Problem.Lo, r.Problem.Hi)
	fmt.Fprintf(f, "# Scanned: %d\n", r.Scanned)
	fmt.Fprintf(f, "# Matrix: %s\n", r.Problem.Matrix)
	writeReport(f, r, cfg.ValuesOnly, palette{})

	return f.Close()
}

// ReportToModel converts a scan outcome to its JSON form. A nil report with
// an error yields an entry carrying only the error.
func ReportToModel(r *eigen.Report, err error) models.ScanResult {
	var res models.ScanResult
	if r != nil {
		res = models.ScanResult{
			Name:        r.Problem.Name,
			Engine:      r.Engine,
			Lo:          r.Problem.Lo,
			Hi:          r.Problem.Hi,
			Scanned:     r.Scanned,
			Eigenvalues: EigenpairsToModel(r.Eigenpairs),
			Duration:    r.Duration.String(),
		}
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// EigenpairsToModel converts eigenpairs to their JSON form. The result is
// never nil so that it encodes as [] rather than null.
func EigenpairsToModel(pairs []eigen.Eigenpair) []models.Eigenpair {
	out := make([]models.Eigenpair, len(pairs))
	for i, p := range pairs {
		out[i] = models.NewEigenpair(p.Value, p.Basis)
	}
	return out
}

// WriteJSON encodes results as an indented JSON array.
func WriteJSON(out io.Writer, results []models.ScanResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
