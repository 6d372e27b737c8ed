//go:build gmp

// This file provides a GMP-backed Bareiss engine, compiled only with the "gmp"
// build tag (go build -tags=gmp). It needs libgmp on the build host:
//   - Linux: sudo apt-get install libgmp-dev
//   - macOS: brew install gmp

package eigen

import (
	"fmt"
	"math/big"

	"github.com/ncw/gmp"

	"github.com/agbru/eigscan/internal/linalg"
)

func init() {
	_ = RegisterEngine("gmp", func() DeterminantEngine { return &GMPEngine{} })
}

// GMPEngine runs the same fraction-free elimination as BareissEngine on
// gmp.Int values. Entries are converted through their decimal form, which
// keeps the sign that gmp.Int.Bytes would drop.
type GMPEngine struct{}

// Name returns the name of the algorithm.
func (e *GMPEngine) Name() string {
	return "GMP (Bareiss)"
}

// toGMP converts a math/big integer to gmp.
func toGMP(v *big.Int) *gmp.Int {
	g, _ := new(gmp.Int).SetString(v.String(), 10)
	return g
}

// fromGMP converts a gmp integer back to math/big.
func fromGMP(g *gmp.Int) *big.Int {
	v, _ := new(big.Int).SetString(g.String(), 10)
	return v
}

// Determinant computes det(m) with Bareiss elimination on GMP integers.
func (e *GMPEngine) Determinant(m *linalg.IntMatrix) (*big.Int, error) {
	if err := linalg.ValidateSquare(m); err != nil {
		return nil, fmt.Errorf("GMPEngine: %w", err)
	}
	n := m.Rows()
	a := make([]*gmp.Int, 0, n*n)
	for _, row := range m.Entries() {
		for _, v := range row {
			a = append(a, toGMP(v))
		}
	}
	if n == 1 {
		return fromGMP(a[0]), nil
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	at := func(r, c int) *gmp.Int { return a[perm[r]*n+c] }

	sign := 1
	prev := gmp.NewInt(1)
	num, term, rem := new(gmp.Int), new(gmp.Int), new(gmp.Int)

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
					return nil, fmt.Errorf("GMPEngine: step %d, entry (%d,%d): %w", k, i, j, linalg.ErrInexactDivision)
				}
			}
		}
		for i := k + 1; i < n; i++ {
			at(i, k).SetInt64(0)
		}
		prev = pivot
	}

	det := fromGMP(at(n-1, n-1))
	if sign < 0 {
		det.Neg(det)
	}
	return det, nil
}
