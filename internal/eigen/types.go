package eigen

import (
	"math"
	"math/big"
	"time"

	"github.com/agbru/eigscan/internal/linalg"
)

// Problem is one scan request: a square matrix and the closed range [Lo, Hi]
// of candidate eigenvalues. A range with Lo > Hi is valid and empty.
type Problem struct {
	// Name labels the problem in batch runs and reports. It may be empty.
	Name   string
	Matrix *linalg.IntMatrix
	Lo     int64
	Hi     int64
}

// Candidates returns the number of λ values in the range. The full int64
// range saturates at math.MaxUint64.
func (p Problem) Candidates() uint64 {
	if p.Lo > p.Hi {
		return 0
	}
	w := uint64(p.Hi) - uint64(p.Lo)
	if w == math.MaxUint64 {
		return w
	}
	return w + 1
}

// Eigenpair is an integer eigenvalue with a primitive integer basis of its
// eigenspace. Basis is nil when the scan was run with Options.ValuesOnly.
type Eigenpair struct {
	Value int64
	Basis [][]*big.Int
}

// Report is the outcome of one scan.
type Report struct {
	Engine     string
	Problem    Problem
	Eigenpairs []Eigenpair
	// Scanned is the number of candidates examined. It is smaller than
	// Problem.Candidates() only when the scan was interrupted.
	Scanned  uint64
	Duration time.Duration
}

// Values returns the eigenvalues in ascending order.
func (r *Report) Values() []int64 {
	out := make([]int64, len(r.Eigenpairs))
	for i, p := range r.Eigenpairs {
		out[i] = p.Value
	}
	return out
}
