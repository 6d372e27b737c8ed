package linalg

import (
	"fmt"
	"math/big"
)

// Determinant returns the exact determinant of a square integer matrix using
// Bareiss fraction-free elimination.
//
// Every intermediate value is an integer minor of the (row-permuted) input, so
// each update divides exactly by the previous pivot. A zero pivot is replaced
// by the first non-zero entry below it; if the column has none, the matrix is
// singular and 0 is returned immediately.
//
// Parameters:
//   - m: A square matrix of order n >= 1.
//
// Returns:
//   - *big.Int: det(m).
//   - error: ErrMalformedMatrix for empty or non-square input, or
//     ErrInexactDivision if an update leaves a remainder.
func Determinant(m *IntMatrix) (*big.Int, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("Determinant", err)
	}
	n := m.rows
	a := m.clone()
	if n == 1 {
		return a[0], nil
	}

	// Logical row r lives at physical row perm[r].
	perm := identityPerm(n)
	at := func(r, c int) *big.Int { return a[perm[r]*n+c] }

	sign := 1
	prev := big.NewInt(1)
	num, term, rem := new(big.Int), new(big.Int), new(big.Int)

	for k := 0; k < n-1; k++ {
		if at(k, k).Sign() == 0 {
			swap := -1
			for r := k + 1; r < n; r++ {
				if at(r, k).Sign() != 0 {
					swap = r
					break
				}
			}
			if swap < 0 {
				return new(big.Int), nil
			}
			perm[k], perm[swap] = perm[swap], perm[k]
			sign = -sign
		}

		pivot := at(k, k)
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				num.Mul(at(i, j), pivot)
				num.Sub(num, term.Mul(at(i, k), at(k, j)))
				at(i, j).QuoRem(num, prev, rem)
				if rem.Sign() != 0 {
					return nil, matrixErrorf("Determinant",
						fmt.Errorf("step %d, entry (%d,%d): %w", k, i, j, ErrInexactDivision))
				}
			}
		}
		for i := k + 1; i < n; i++ {
			at(i, k).SetInt64(0)
		}
		// Row k is never touched again, so the pivot can be kept by reference.
		prev = pivot
	}

	det := new(big.Int).Set(at(n-1, n-1))
	if sign < 0 {
		det.Neg(det)
	}
	return det, nil
}

// IsSingular reports whether det(m) == 0.
func IsSingular(m *IntMatrix) (bool, error) {
	det, err := Determinant(m)
	if err != nil {
		return false, err
	}
	return det.Sign() == 0, nil
}
