package eigen

import (
	"fmt"
	"math/big"

	"github.com/agbru/eigscan/internal/linalg"
)

// MaxCofactorOrder is the largest order accepted by the cofactor engine.
// Laplace expansion costs O(n!) and 8! is already 40320 leaf products.
const MaxCofactorOrder = 8

// DeterminantEngine computes exact determinants of square integer matrices.
// The scanner only needs a reliable zero test, but every engine returns the
// full value so that results can be cross-checked.
type DeterminantEngine interface {
	// Determinant returns det(m). Implementations must not modify m.
	//
	// Parameters:
	//   - m: A square integer matrix.
	//
	// Returns:
	//   - *big.Int: The exact determinant.
	//   - error: linalg.ErrMalformedMatrix for non-square input, or an
	//     engine-specific error such as ErrOrderUnsupported.
	Determinant(m *linalg.IntMatrix) (*big.Int, error)

	// Name returns the display name of the algorithm.
	Name() string
}

// BareissEngine computes determinants with fraction-free Bareiss elimination
// over math/big. It is the default engine.
type BareissEngine struct{}

// Name returns the name of the algorithm.
func (BareissEngine) Name() string { return "Bareiss" }

// Determinant delegates to linalg.Determinant.
func (BareissEngine) Determinant(m *linalg.IntMatrix) (*big.Int, error) {
	return linalg.Determinant(m)
}

// CofactorEngine computes determinants by Laplace expansion. It shares no code
// with the elimination path and serves as the reference in comparison runs and
// golden file generation.
type CofactorEngine struct{}

// Name returns the name of the algorithm.
func (CofactorEngine) Name() string { return "Cofactor (Laplace)" }

// Determinant rejects orders above MaxCofactorOrder and otherwise delegates to
// linalg.CofactorDeterminant.
func (CofactorEngine) Determinant(m *linalg.IntMatrix) (*big.Int, error) {
	if m != nil && m.Rows() > MaxCofactorOrder {
		return nil, fmt.Errorf("order %d > %d: %w", m.Rows(), MaxCofactorOrder, ErrOrderUnsupported)
	}
	return linalg.CofactorDeterminant(m)
}
