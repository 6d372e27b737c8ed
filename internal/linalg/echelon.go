package linalg

import (
	"github.com/agbru/eigscan/internal/rational"
)

// Pivot is the (row, column) position of a leading 1 in an echelon form.
type Pivot struct {
	Row int
	Col int
}

// EchelonForm is a matrix in reduced row-echelon form together with its pivot
// positions. Pivots are listed in increasing row order, and their columns are
// strictly increasing as well.
type EchelonForm struct {
	Matrix *RatMatrix
	Pivots []Pivot
}

// Rank returns the number of pivots.
func (e EchelonForm) Rank() int { return len(e.Pivots) }

// PivotColumns returns the pivot columns in increasing order.
func (e EchelonForm) PivotColumns() []int {
	cols := make([]int, len(e.Pivots))
	for i, p := range e.Pivots {
		cols[i] = p.Col
	}
	return cols
}

// FreeColumns returns the columns without a pivot, in increasing order.
func (e EchelonForm) FreeColumns() []int {
	var free []int
	next := 0
	for c := 0; c < e.Matrix.cols; c++ {
		if next < len(e.Pivots) && e.Pivots[next].Col == c {
			next++
			continue
		}
		free = append(free, c)
	}
	return free
}

// Reduce computes the reduced row-echelon form of m by Gauss-Jordan
// elimination over exact rationals.
//
// Columns are processed left to right with a row cursor. The first row at or
// below the cursor with a non-zero entry in the column becomes the pivot row;
// it is scaled so the pivot is exactly 1, and the column is then cleared from
// every other row, above and below. Reduction stops once every row holds a
// pivot. Applying Reduce to its own output returns an identical matrix.
//
// Parameters:
//   - m: Any non-empty rational matrix; it is not modified.
//
// Returns:
//   - EchelonForm: The RREF and its pivot positions.
//   - error: ErrMalformedMatrix if m is nil or empty.
func Reduce(m *RatMatrix) (EchelonForm, error) {
	if m == nil || m.rows == 0 || m.cols == 0 {
		return EchelonForm{}, matrixErrorf("Reduce", ErrMalformedMatrix)
	}
	rows, cols := m.rows, m.cols
	a := append([]rational.Rational(nil), m.data...)
	perm := identityPerm(rows)
	get := func(r, c int) rational.Rational { return a[perm[r]*cols+c] }
	set := func(r, c int, v rational.Rational) { a[perm[r]*cols+c] = v }

	var pivots []Pivot
	cursor := 0
	for c := 0; c < cols && cursor < rows; c++ {
		found := -1
		for r := cursor; r < rows; r++ {
			if !get(r, c).IsZero() {
				found = r
				break
			}
		}
		if found < 0 {
			continue
		}
		perm[cursor], perm[found] = perm[found], perm[cursor]

		pv := get(cursor, c)
		for j := c; j < cols; j++ {
			q, err := get(cursor, j).Quo(pv)
			if err != nil {
				return EchelonForm{}, matrixErrorf("Reduce", err)
			}
			set(cursor, j, q)
		}

		for r := 0; r < rows; r++ {
			if r == cursor {
				continue
			}
			f := get(r, c)
			if f.IsZero() {
				continue
			}
			for j := c; j < cols; j++ {
				set(r, j, get(r, j).Sub(f.Mul(get(cursor, j))))
			}
		}

		pivots = append(pivots, Pivot{Row: cursor, Col: c})
		cursor++
	}

	out := &RatMatrix{rows: rows, cols: cols, data: make([]rational.Rational, 0, rows*cols)}
	for r := 0; r < rows; r++ {
		out.data = append(out.data, a[perm[r]*cols:(perm[r]+1)*cols]...)
	}
	return EchelonForm{Matrix: out, Pivots: pivots}, nil
}

// ReduceInt lifts an integer matrix to rationals and reduces it.
func ReduceInt(m *IntMatrix) (EchelonForm, error) {
	if m == nil || m.rows == 0 {
		return EchelonForm{}, matrixErrorf("ReduceInt", ErrMalformedMatrix)
	}
	return Reduce(m.ToRational())
}
