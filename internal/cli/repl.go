package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
)

// REPLConfig holds the settings of an interactive session.
type REPLConfig struct {
	DefaultEngine string
	// Timeout bounds each scan.
	Timeout    time.Duration
	MaxDim     int
	Canonical  bool
	ValuesOnly bool
}

// REPL is an interactive session. It starts with the classic prompt
// sequence for a matrix and a range, then accepts commands that rescan,
// switch engines or compare them on the current matrix.
type REPL struct {
	config        REPLConfig
	registry      map[string]eigen.Scanner
	currentEngine string
	problem       *eigen.Problem
	in            *bufio.Reader
	out           io.Writer
}

// NewREPL creates a session over the given scanners. An empty or "all"
// default engine selects the first engine in name order.
func NewREPL(registry map[string]eigen.Scanner, config REPLConfig) *REPL {
	r := &REPL{
		config:        config,
		registry:      registry,
		currentEngine: config.DefaultEngine,
		in:            bufio.NewReader(os.Stdin),
		out:           os.Stdout,
	}
	if _, ok := registry[r.currentEngine]; !ok {
		if names := r.engineNames(); len(names) > 0 {
			r.currentEngine = names[0]
		}
	}
	return r
}

// SetInput replaces standard input.
func (r *REPL) SetInput(in io.Reader) { r.in = bufio.NewReader(in) }

// SetOutput replaces standard output.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start runs the session until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.cmdNew()
	fmt.Fprintln(r.out)
	r.printHelp()

	for {
		fmt.Fprint(r.out, ColorGreen()+"eigen> "+ColorReset())
		input, err := r.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		if input = strings.TrimSpace(input); input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s    %sInteger Eigenvalue Scanner - Interactive Mode%s         %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	for _, c := range [][2]string{
		{"new", "Enter a new matrix and range"},
		{"scan [lo hi]", "Scan the current matrix (default: last range)"},
		{"det", "Determinant of the current matrix"},
		{"engine <name>", "Change engine (" + strings.Join(r.engineNames(), ", ") + ")"},
		{"compare [lo hi]", "Scan with every engine and compare"},
		{"show", "Display the current matrix"},
		{"canonical", "Toggle sign normalization of eigenvectors"},
		{"values", "Toggle values-only scans"},
		{"list", "List available engines"},
		{"status", "Display current configuration"},
		{"help", "Display this help"},
		{"exit", "Exit interactive mode"},
	} {
		fmt.Fprintf(r.out, "  %s%-16s%s - %s\n", ColorYellow(), c[0], ColorReset(), c[1])
	}
}

func (r *REPL) engineNames() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// processCommand runs one command line and reports whether the session
// continues.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case "new", "n":
		r.cmdNew()
	case "scan", "s":
		r.cmdScan(args)
	case "det", "d":
		r.cmdDet()
	case "engine", "e":
		r.cmdEngine(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "show":
		r.cmdShow()
	case "canonical":
		r.config.Canonical = !r.config.Canonical
		fmt.Fprintf(r.out, "Canonical eigenvectors: %s%s%s\n", ColorGreen(), onOff(r.config.Canonical), ColorReset())
	case "values":
		r.config.ValuesOnly = !r.config.ValuesOnly
		fmt.Fprintf(r.out, "Values-only scans: %s%s%s\n", ColorGreen(), onOff(r.config.ValuesOnly), ColorReset())
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), parts[0], ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
	}
	return true
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func (r *REPL) errorf(format string, a ...any) {
	fmt.Fprintf(r.out, "%s"+format+"%s\n", append(append([]any{ColorRed()}, a...), ColorReset())...)
}

// cmdNew runs the prompt sequence and scans the new problem.
func (r *REPL) cmdNew() {
	p, err := NewPrompter(r.in, r.out, r.config.MaxDim).ReadProblem()
	if err != nil {
		r.errorf("Input error: %v", err)
		return
	}
	r.problem = &p
	r.scan(p)
}

// parseRange reads optional "lo hi" arguments, defaulting to the current
// problem's range.
func (r *REPL) parseRange(args []string) (eigen.Problem, bool) {
	if r.problem == nil {
		r.errorf("No matrix yet. Use 'new' first.")
		return eigen.Problem{}, false
	}
	p := *r.problem
	switch len(args) {
	case 0:
	case 2:
		lo, err1 := strconv.ParseInt(args[0], 10, 64)
		hi, err2 := strconv.ParseInt(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			r.errorf("Invalid range: %s %s", args[0], args[1])
			return eigen.Problem{}, false
		}
		p.Lo, p.Hi = lo, hi
	default:
		r.errorf("Usage: scan [lo hi]")
		return eigen.Problem{}, false
	}
	return p, true
}

func (r *REPL) cmdScan(args []string) {
	if p, ok := r.parseRange(args); ok {
		r.problem = &p
		r.scan(p)
	}
}

func (r *REPL) options() eigen.Options {
	return eigen.Options{Canonical: r.config.Canonical, ValuesOnly: r.config.ValuesOnly}
}

// scan runs p with the current engine and prints the report.
func (r *REPL) scan(p eigen.Problem) {
	s, ok := r.registry[r.currentEngine]
	if !ok {
		r.errorf("Engine not found: %s", r.currentEngine)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	report, err := s.Scan(ctx, nil, 0, p, r.options())
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	writeReport(r.out, report, r.config.ValuesOnly, themePalette())
	fmt.Fprintf(r.out, "%s(%d candidates with %s in %s)%s\n",
		ColorCyan(), report.Scanned, s.Name(), FormatExecutionDuration(report.Duration), ColorReset())
}

func (r *REPL) cmdDet() {
	if r.problem == nil {
		r.errorf("No matrix yet. Use 'new' first.")
		return
	}
	s, ok := r.registry[r.currentEngine]
	if !ok {
		r.errorf("Engine not found: %s", r.currentEngine)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	det, err := s.Determinant(ctx, r.problem.Matrix)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	DisplayDeterminant(r.out, det, s.Name(), time.Since(start), false)
}

func (r *REPL) cmdEngine(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: engine <name>")
		fmt.Fprintf(r.out, "Available engines: %s\n", strings.Join(r.engineNames(), ", "))
		return
	}
	name := strings.ToLower(args[0])
	s, ok := r.registry[name]
	if !ok {
		r.errorf("Unknown engine: %s", name)
		fmt.Fprintf(r.out, "Available engines: %s\n", strings.Join(r.engineNames(), ", "))
		return
	}
	r.currentEngine = name
	fmt.Fprintf(r.out, "Engine changed to: %s%s%s\n", ColorGreen(), s.Name(), ColorReset())
}

// cmdCompare scans with every engine in turn and flags engines whose
// eigenpairs differ from the first successful one.
func (r *REPL) cmdCompare(args []string) {
	p, ok := r.parseRange(args)
	if !ok {
		return
	}
	fmt.Fprintf(r.out, "\n%sComparison on [%d, %d]:%s\n", ColorBold(), p.Lo, p.Hi, ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ColorCyan(), ColorReset())

	var reference string
	for _, name := range r.engineNames() {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		report, err := r.registry[name].Scan(ctx, nil, 0, p, r.options())
		cancel()
		if err != nil {
			fmt.Fprintf(r.out, "  %s%-10s%s: %sError - %v%s\n", ColorYellow(), name, ColorReset(), ColorRed(), err, ColorReset())
			continue
		}

		summary := EigenpairsSignature(report.Eigenpairs)
		if reference == "" {
			reference = summary
		}
		status := ColorGreen() + "✓" + ColorReset()
		if summary != reference {
			status = ColorRed() + "✗ INCONSISTENT" + ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-10s%s: %s%10s%s  %v %s\n",
			ColorYellow(), name, ColorReset(),
			ColorCyan(), FormatExecutionDuration(report.Duration), ColorReset(),
			report.Values(), status)
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ColorCyan(), ColorReset())
}

// EigenpairsSignature renders eigenpairs as a comparable string such as
// "2:[1, 0];3:[0, 1]".
func EigenpairsSignature(pairs []eigen.Eigenpair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatInt(p.Value, 10))
		b.WriteByte(':')
		for j, v := range p.Basis {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(linalg.FormatVector(v))
		}
	}
	return b.String()
}

func (r *REPL) cmdShow() {
	if r.problem == nil {
		r.errorf("No matrix yet. Use 'new' first.")
		return
	}
	fmt.Fprintf(r.out, "A = %s\n", r.problem.Matrix)
	fmt.Fprintf(r.out, "Range: [%d, %d]\n", r.problem.Lo, r.problem.Hi)
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable engines:%s\n", ColorBold(), ColorReset())
	for _, name := range r.engineNames() {
		marker := "  "
		if name == r.currentEngine {
			marker = ColorGreen() + "► " + ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ColorYellow(), name, ColorReset(), r.registry[name].Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Engine:      %s%s%s\n", ColorCyan(), r.currentEngine, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:     %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	fmt.Fprintf(r.out, "  Max order:   %s%d%s\n", ColorCyan(), r.config.MaxDim, ColorReset())
	fmt.Fprintf(r.out, "  Canonical:   %s%s%s\n", ColorCyan(), onOff(r.config.Canonical), ColorReset())
	fmt.Fprintf(r.out, "  Values only: %s%s%s\n", ColorCyan(), onOff(r.config.ValuesOnly), ColorReset())
	fmt.Fprintln(r.out)
}
