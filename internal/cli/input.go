package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
)

// promptSource names prompt input in InputErrors.
const promptSource = "prompt"

// Prompter reads a matrix and a λ range from a terminal, one value per line:
//
//	Matrix dimension (max 4): 2
//	Enter matrix values:
//	a11: 2
//	...
//	Search lambda from: -5
//	to: 5
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	maxDim int
}

// NewPrompter reads from in and writes prompts to out. An in that is already
// a *bufio.Reader is used directly so that the REPL and the prompter can
// share buffered input.
func NewPrompter(in io.Reader, out io.Writer, maxDim int) *Prompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Prompter{in: br, out: out, maxDim: maxDim}
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned normally; io.EOF is returned only when no
// input is left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return "", apperrors.InputError{Source: promptSource, Cause: fmt.Errorf("%s: %w", strings.TrimSpace(prompt), err)}
	}
	return line, nil
}

func (p *Prompter) askInt64(prompt string) (int64, error) {
	line, err := p.ask(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, apperrors.InputError{Source: promptSource, Cause: fmt.Errorf("invalid integer %q", line)}
	}
	return v, nil
}

// entryLabel names entry (r, c), 1-based, as "a12". Orders above 9 use
// "a10,11" so that labels stay unambiguous.
func entryLabel(r, c, n int) string {
	if n > 9 {
		return fmt.Sprintf("a%d,%d", r, c)
	}
	return fmt.Sprintf("a%d%d", r, c)
}

// ReadMatrix prompts for the order and then every entry in row-major order.
// The order must lie in 1..maxDim.
func (p *Prompter) ReadMatrix() ([][]*big.Int, error) {
	n, err := p.askInt64(fmt.Sprintf("Matrix dimension (max %d): ", p.maxDim))
	if err != nil {
		return nil, err
	}
	if n < 1 || n > int64(p.maxDim) {
		return nil, apperrors.InputError{Source: promptSource, Cause: fmt.Errorf("dimension %d outside 1..%d", n, p.maxDim)}
	}

	fmt.Fprintln(p.out, "Enter matrix values:")
	rows := make([][]*big.Int, n)
	for r := range rows {
		rows[r] = make([]*big.Int, n)
		for c := range rows[r] {
			label := entryLabel(r+1, c+1, int(n))
			line, err := p.ask(label + ": ")
			if err != nil {
				return nil, err
			}
			v, err := parseEntry(line)
			if err != nil {
				return nil, apperrors.InputError{Source: promptSource, Cause: fmt.Errorf("%s: %w", label, err)}
			}
			rows[r][c] = v
		}
	}
	return rows, nil
}

// ReadRange prompts for the inclusive bounds of the λ scan.
func (p *Prompter) ReadRange() (lo, hi int64, err error) {
	if lo, err = p.askInt64("Search lambda from: "); err != nil {
		return 0, 0, err
	}
	if hi, err = p.askInt64("to: "); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// ReadProblem runs the full prompt sequence: order, entries, then range.
func (p *Prompter) ReadProblem() (eigen.Problem, error) {
	rows, err := p.ReadMatrix()
	if err != nil {
		return eigen.Problem{}, err
	}
	m, err := newSquareMatrix(rows)
	if err != nil {
		return eigen.Problem{}, apperrors.InputError{Source: promptSource, Cause: err}
	}
	lo, hi, err := p.ReadRange()
	if err != nil {
		return eigen.Problem{}, err
	}
	return eigen.Problem{Matrix: m, Lo: lo, Hi: hi}, nil
}
