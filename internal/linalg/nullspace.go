package linalg

import (
	"math/big"

	"github.com/agbru/eigscan/internal/rational"
)

// NullSpace returns an integer basis of {x : b·x = 0}.
//
// The basis is read off the reduced row-echelon form of b: each free column f
// yields one solution with x[f] = 1, every other free variable 0, and each
// pivot variable solved from its row. The rational solution is then scaled by
// the LCM of its denominators and divided by the GCD of its entries, giving a
// primitive integer vector. Vectors are returned in increasing free-column
// order. A matrix of full column rank has an empty basis.
//
// Parameters:
//   - b: A non-empty integer matrix, typically A - λI.
//
// Returns:
//   - [][]*big.Int: One primitive vector of length b.Cols() per free column.
//   - error: ErrMalformedMatrix if b is nil or empty.
func NullSpace(b *IntMatrix) ([][]*big.Int, error) {
	ef, err := ReduceInt(b)
	if err != nil {
		return nil, matrixErrorf("NullSpace", err)
	}
	free := ef.FreeColumns()
	basis := make([][]*big.Int, 0, len(free))
	for _, f := range free {
		x := make([]rational.Rational, b.cols)
		x[f] = rational.One()
		for _, p := range ef.Pivots {
			var s rational.Rational
			for _, j := range free {
				rj := ef.Matrix.at(p.Row, j)
				if rj.IsZero() || x[j].IsZero() {
					continue
				}
				s = s.Add(rj.Mul(x[j]))
			}
			x[p.Col] = s.Neg()
		}
		basis = append(basis, primitive(x))
	}
	return basis, nil
}

// primitive clears the denominators of x and divides out the common factor of
// the resulting integers.
func primitive(x []rational.Rational) []*big.Int {
	lcm := big.NewInt(1)
	g := new(big.Int)
	for _, v := range x {
		d := v.Den()
		g.GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, d.Quo(d, g))
	}

	out := make([]*big.Int, len(x))
	for i, v := range x {
		d := v.Den()
		out[i] = v.Num()
		out[i].Mul(out[i], d.Quo(lcm, d))
	}
	return Primitive(out)
}
