// Package linalg implements the exact linear algebra used to find integer
// eigenvalues and eigenvectors: a fraction-free (Bareiss) determinant over
// arbitrary-precision integers, Gauss-Jordan reduction over exact rationals,
// and null-space extraction into primitive integer vectors.
//
// Matrices are immutable values. Every algorithm copies its input into a
// private arena and performs row exchanges through a permutation vector
// instead of moving row storage, so no caller-visible data is ever aliased
// or mutated.
package linalg

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/agbru/eigscan/internal/rational"
)

// IntMatrix is an immutable rows x cols matrix of arbitrary-precision integers
// stored row-major in a single arena.
type IntMatrix struct {
	rows, cols int
	data       []*big.Int
}

// NewIntMatrix builds a matrix from a slice of rows. All rows must be non-empty
// and of equal length, and no entry may be nil. Entries are deep-copied.
//
// Parameters:
//   - entries: The matrix entries, one slice per row.
//
// Returns:
//   - *IntMatrix: The new matrix.
//   - error: ErrMalformedMatrix if the input is empty, ragged or has nil entries.
func NewIntMatrix(entries [][]*big.Int) (*IntMatrix, error) {
	rows, cols, err := shapeOf(len(entries), func(i int) int { return len(entries[i]) })
	if err != nil {
		return nil, matrixErrorf("NewIntMatrix", err)
	}
	m := &IntMatrix{rows: rows, cols: cols, data: make([]*big.Int, rows*cols)}
	for i, row := range entries {
		for j, v := range row {
			if v == nil {
				return nil, matrixErrorf("NewIntMatrix", fmt.Errorf("nil entry at (%d,%d): %w", i, j, ErrMalformedMatrix))
			}
			m.data[i*cols+j] = new(big.Int).Set(v)
		}
	}
	return m, nil
}

// FromInt64 builds a matrix from machine integers.
func FromInt64(entries [][]int64) (*IntMatrix, error) {
	rows, cols, err := shapeOf(len(entries), func(i int) int { return len(entries[i]) })
	if err != nil {
		return nil, matrixErrorf("FromInt64", err)
	}
	m := &IntMatrix{rows: rows, cols: cols, data: make([]*big.Int, rows*cols)}
	for i, row := range entries {
		for j, v := range row {
			m.data[i*cols+j] = big.NewInt(v)
		}
	}
	return m, nil
}

// MustFromInt64 is like FromInt64 but panics on malformed input. It is meant
// for literals in tests and examples.
func MustFromInt64(entries [][]int64) *IntMatrix {
	m, err := FromInt64(entries)
	if err != nil {
		panic(err)
	}
	return m
}

// shapeOf validates a row-of-rows shape and returns its dimensions.
func shapeOf(rows int, rowLen func(i int) int) (int, int, error) {
	if rows == 0 {
		return 0, 0, fmt.Errorf("no rows: %w", ErrMalformedMatrix)
	}
	cols := rowLen(0)
	if cols == 0 {
		return 0, 0, fmt.Errorf("no columns: %w", ErrMalformedMatrix)
	}
	for i := 1; i < rows; i++ {
		if rowLen(i) != cols {
			return 0, 0, fmt.Errorf("row %d has %d entries, want %d: %w", i, rowLen(i), cols, ErrMalformedMatrix)
		}
	}
	return rows, cols, nil
}

// ValidateSquare checks that m is non-nil, non-empty and square.
func ValidateSquare(m *IntMatrix) error {
	if m == nil || m.rows == 0 {
		return fmt.Errorf("empty matrix: %w", ErrMalformedMatrix)
	}
	if m.rows != m.cols {
		return fmt.Errorf("%dx%d is not square: %w", m.rows, m.cols, ErrMalformedMatrix)
	}
	return nil
}

// Rows returns the number of rows.
func (m *IntMatrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *IntMatrix) Cols() int { return m.cols }

// IsSquare reports whether Rows() == Cols().
func (m *IntMatrix) IsSquare() bool { return m.rows == m.cols }

// At returns a copy of the entry at (i, j).
func (m *IntMatrix) At(i, j int) (*big.Int, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return nil, matrixErrorf("At", fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.rows, m.cols, ErrOutOfRange))
	}
	return new(big.Int).Set(m.data[i*m.cols+j]), nil
}

// Entries returns a deep copy of the matrix as a slice of rows.
func (m *IntMatrix) Entries() [][]*big.Int {
	out := make([][]*big.Int, m.rows)
	for i := range out {
		out[i] = make([]*big.Int, m.cols)
		for j := range out[i] {
			out[i][j] = new(big.Int).Set(m.data[i*m.cols+j])
		}
	}
	return out
}

// clone returns a deep copy of the arena for use as an algorithm's private
// workspace.
func (m *IntMatrix) clone() []*big.Int {
	out := make([]*big.Int, len(m.data))
	for i, v := range m.data {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

// Shift returns m - lambda*I. m must be square.
//
// Parameters:
//   - lambda: The value subtracted from every diagonal entry.
//
// Returns:
//   - *IntMatrix: The shifted matrix; m is unchanged.
//   - error: ErrMalformedMatrix if m is not square.
func (m *IntMatrix) Shift(lambda *big.Int) (*IntMatrix, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("Shift", err)
	}
	out := &IntMatrix{rows: m.rows, cols: m.cols, data: m.clone()}
	for i := 0; i < m.rows; i++ {
		d := out.data[i*m.cols+i]
		d.Sub(d, lambda)
	}
	return out, nil
}

// MulVec returns the product m·v computed with exact integer dot products.
func (m *IntMatrix) MulVec(v []*big.Int) ([]*big.Int, error) {
	if len(v) != m.cols {
		return nil, matrixErrorf("MulVec", fmt.Errorf("vector length %d, want %d: %w", len(v), m.cols, ErrDimensionMismatch))
	}
	out := make([]*big.Int, m.rows)
	term := new(big.Int)
	for i := 0; i < m.rows; i++ {
		acc := new(big.Int)
		for j := 0; j < m.cols; j++ {
			acc.Add(acc, term.Mul(m.data[i*m.cols+j], v[j]))
		}
		out[i] = acc
	}
	return out, nil
}

// SwapRows returns a copy of m with rows i and j exchanged.
func (m *IntMatrix) SwapRows(i, j int) (*IntMatrix, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.rows {
		return nil, matrixErrorf("SwapRows", fmt.Errorf("rows %d,%d in %d: %w", i, j, m.rows, ErrOutOfRange))
	}
	out := &IntMatrix{rows: m.rows, cols: m.cols, data: m.clone()}
	for c := 0; c < m.cols; c++ {
		out.data[i*m.cols+c], out.data[j*m.cols+c] = out.data[j*m.cols+c], out.data[i*m.cols+c]
	}
	return out, nil
}

// ScaleRow returns a copy of m with row i multiplied by k.
func (m *IntMatrix) ScaleRow(i int, k *big.Int) (*IntMatrix, error) {
	if i < 0 || i >= m.rows {
		return nil, matrixErrorf("ScaleRow", fmt.Errorf("row %d in %d: %w", i, m.rows, ErrOutOfRange))
	}
	out := &IntMatrix{rows: m.rows, cols: m.cols, data: m.clone()}
	for c := 0; c < m.cols; c++ {
		e := out.data[i*m.cols+c]
		e.Mul(e, k)
	}
	return out, nil
}

// ToRational lifts m to a rational matrix.
func (m *IntMatrix) ToRational() *RatMatrix {
	out := &RatMatrix{rows: m.rows, cols: m.cols, data: make([]rational.Rational, len(m.data))}
	for i, v := range m.data {
		out.data[i] = rational.FromInt(v)
	}
	return out
}

// String renders m as "[[a, b], [c, d]]".
func (m *IntMatrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatVector(m.data[i*m.cols : (i+1)*m.cols]))
	}
	sb.WriteByte(']')
	return sb.String()
}

// identityPerm returns [0, 1, ..., n-1].
func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
