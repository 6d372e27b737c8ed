package linalg_test

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/stretchr/testify/require"

	"github.com/agbru/eigscan/internal/linalg"
)

// MustMatrix builds an IntMatrix from int64 literals or fails the test.
func MustMatrix(t *testing.T, entries [][]int64) *linalg.IntMatrix {
	t.Helper()
	m, err := linalg.FromInt64(entries)
	require.NoError(t, err)
	return m
}

// bigs converts int64 literals to a big.Int vector.
func bigs(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

// vecStrings renders a basis for readable assertions.
func vecStrings(basis [][]*big.Int) []string {
	out := make([]string, len(basis))
	for i, v := range basis {
		out[i] = linalg.FormatVector(v)
	}
	return out
}

var matrixType = reflect.TypeOf(&linalg.IntMatrix{})

// fromFlat builds an n x m matrix from a flat row-major slice.
func fromFlat(rows, cols int, flat []int64) *linalg.IntMatrix {
	entries := make([][]int64, rows)
	for i := range entries {
		entries[i] = flat[i*cols : (i+1)*cols]
	}
	return linalg.MustFromInt64(entries)
}

// genSquare generates square matrices of order 1..maxOrder with entries in
// [-bound, bound].
func genSquare(maxOrder int, bound int64) gopter.Gen {
	return gen.IntRange(1, maxOrder).FlatMap(func(v interface{}) gopter.Gen {
		n := v.(int)
		return gen.SliceOfN(n*n, gen.Int64Range(-bound, bound)).Map(func(flat []int64) *linalg.IntMatrix {
			return fromFlat(n, n, flat)
		})
	}, matrixType)
}

// genRect generates rectangular matrices with up to maxDim rows and columns.
func genRect(maxDim int, bound int64) gopter.Gen {
	return gopter.CombineGens(gen.IntRange(1, maxDim), gen.IntRange(1, maxDim)).FlatMap(func(v interface{}) gopter.Gen {
		dims := v.([]interface{})
		r, c := dims[0].(int), dims[1].(int)
		return gen.SliceOfN(r*c, gen.Int64Range(-bound, bound)).Map(func(flat []int64) *linalg.IntMatrix {
			return fromFlat(r, c, flat)
		})
	}, matrixType)
}

// genSingular generates square matrices of order 1..maxOrder that are singular
// by construction: U·V with U n x (n-1) and V (n-1) x n.
func genSingular(maxOrder int, bound int64) gopter.Gen {
	return gen.IntRange(1, maxOrder).FlatMap(func(v interface{}) gopter.Gen {
		n := v.(int)
		if n == 1 {
			return gen.Const(linalg.MustFromInt64([][]int64{{0}}))
		}
		r := n - 1
		return gen.SliceOfN(2*n*r, gen.Int64Range(-bound, bound)).Map(func(flat []int64) *linalg.IntMatrix {
			u, w := flat[:n*r], flat[n*r:]
			prod := make([]int64, n*n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					for k := 0; k < r; k++ {
						prod[i*n+j] += u[i*r+k] * w[k*n+j]
					}
				}
			}
			return fromFlat(n, n, prod)
		})
	}, matrixType)
}
