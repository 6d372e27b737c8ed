package linalg

import (
	"fmt"
	"strings"

	"github.com/agbru/eigscan/internal/rational"
)

// RatMatrix is an immutable rows x cols matrix of exact rationals stored
// row-major in a single arena. Rational is itself a value type, so copying
// the arena slice is a full copy.
type RatMatrix struct {
	rows, cols int
	data       []rational.Rational
}

// NewRatMatrix builds a rational matrix from a slice of equal-length rows.
func NewRatMatrix(entries [][]rational.Rational) (*RatMatrix, error) {
	rows, cols, err := shapeOf(len(entries), func(i int) int { return len(entries[i]) })
	if err != nil {
		return nil, matrixErrorf("NewRatMatrix", err)
	}
	m := &RatMatrix{rows: rows, cols: cols, data: make([]rational.Rational, 0, rows*cols)}
	for _, row := range entries {
		m.data = append(m.data, row...)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *RatMatrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *RatMatrix) Cols() int { return m.cols }

// At returns the entry at (i, j).
func (m *RatMatrix) At(i, j int) (rational.Rational, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return rational.Rational{}, matrixErrorf("At", fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.rows, m.cols, ErrOutOfRange))
	}
	return m.data[i*m.cols+j], nil
}

// at is the unchecked accessor used inside the package.
func (m *RatMatrix) at(i, j int) rational.Rational { return m.data[i*m.cols+j] }

// Entries returns the matrix as a slice of rows.
func (m *RatMatrix) Entries() [][]rational.Rational {
	out := make([][]rational.Rational, m.rows)
	for i := range out {
		out[i] = append([]rational.Rational(nil), m.data[i*m.cols:(i+1)*m.cols]...)
	}
	return out
}

// Equal reports whether m and o have the same shape and entries.
func (m *RatMatrix) Equal(o *RatMatrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// String renders m as "[[1, -1/2], [0, 0]]".
func (m *RatMatrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.at(i, j).String())
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
