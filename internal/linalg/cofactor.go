package linalg

import "math/big"

// CofactorDeterminant returns det(m) by Laplace expansion along the first row.
//
// It runs in O(n!) time and exists as an independent reference for Determinant:
// it shares no elimination logic with Bareiss, so agreement between the two is
// meaningful evidence of correctness.
func CofactorDeterminant(m *IntMatrix) (*big.Int, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("CofactorDeterminant", err)
	}
	return cofactor(m, 0, identityPerm(m.cols)), nil
}

// cofactor expands the minor made of rows row..n-1 and the given columns.
func cofactor(m *IntMatrix, row int, cols []int) *big.Int {
	if len(cols) == 1 {
		return new(big.Int).Set(m.data[row*m.cols+cols[0]])
	}
	det := new(big.Int)
	rest := make([]int, 0, len(cols)-1)
	term := new(big.Int)
	for k, c := range cols {
		e := m.data[row*m.cols+c]
		if e.Sign() == 0 {
			continue
		}
		rest = rest[:0]
		rest = append(rest, cols[:k]...)
		rest = append(rest, cols[k+1:]...)
		term.Mul(e, cofactor(m, row+1, rest))
		if k%2 == 0 {
			det.Add(det, term)
		} else {
			det.Sub(det, term)
		}
	}
	return det
}
