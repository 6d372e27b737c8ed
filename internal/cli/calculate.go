package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/eigscan/internal/config"
	"github.com/agbru/eigscan/internal/eigen"
)

// GetScannersToRun returns the scanners selected by cfg.Engine: one engine,
// or every registered engine in name order for "all". Unknown names yield
// nil; config validation normally rejects them earlier.
func GetScannersToRun(cfg config.AppConfig, factory eigen.EngineFactory) []eigen.Scanner {
	names := []string{cfg.Engine}
	if cfg.Engine == "all" {
		names = factory.List()
	}
	scanners := make([]eigen.Scanner, 0, len(names))
	for _, name := range names {
		if s, err := factory.Get(name); err == nil {
			scanners = append(scanners, s)
		}
	}
	if len(scanners) == 0 {
		return nil
	}
	return scanners
}

// PrintExecutionConfig describes the scan about to run.
func PrintExecutionConfig(cfg config.AppConfig, p eigen.Problem, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if p.Name != "" {
		fmt.Fprintf(out, "Problem: %s%s%s\n", ColorBold(), p.Name, ColorReset())
	}
	order := 0
	if p.Matrix != nil {
		order = p.Matrix.Rows()
	}
	fmt.Fprintf(out, "Scanning a %s%dx%d%s matrix for integer eigenvalues in %s[%d, %d]%s (%d candidates), timeout %s%s%s.\n",
		ColorMagenta(), order, order, ColorReset(),
		ColorMagenta(), p.Lo, p.Hi, ColorReset(), p.Candidates(),
		ColorYellow(), cfg.Timeout, ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode states whether one engine runs or several are compared.
func PrintExecutionMode(scanners []eigen.Scanner, out io.Writer) {
	var mode string
	switch len(scanners) {
	case 0:
		mode = "no engine selected"
	case 1:
		mode = fmt.Sprintf("Single scan with the %s%s%s engine", ColorGreen(), scanners[0].Name(), ColorReset())
	default:
		mode = fmt.Sprintf("Parallel comparison of %d engines", len(scanners))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
