package eigen

import (
	"context"
	"fmt"
	"math/big"

	"github.com/agbru/eigscan/internal/linalg"
)

// EigenvaluesInRange returns, in ascending order, every integer λ in [lo, hi]
// for which det(m - λI) = 0, using the Bareiss engine. An empty range
// (lo > hi) yields an empty result without scanning.
//
// Parameters:
//   - m: A square integer matrix.
//   - lo, hi: The inclusive bounds of the scan.
//
// Returns:
//   - []int64: The integer eigenvalues found.
//   - error: linalg.ErrMalformedMatrix if m is not square.
func EigenvaluesInRange(m *linalg.IntMatrix, lo, hi int64) ([]int64, error) {
	pairs, _, err := scanRange(context.Background(), BareissEngine{}, m, lo, hi, Options{ValuesOnly: true}, nil)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(pairs))
	for i, p := range pairs {
		out[i] = p.Value
	}
	return out, nil
}

// EigenspaceBasis returns a primitive integer basis of the null space of a
// square matrix that is already known to be singular, typically A - λI. The
// vectors follow the increasing order of the free columns of its reduced
// row-echelon form. A non-singular input yields an empty basis; the scanner
// treats that as ErrInconsistentSingularity.
func EigenspaceBasis(b *linalg.IntMatrix) ([][]*big.Int, error) {
	if err := linalg.ValidateSquare(b); err != nil {
		return nil, fmt.Errorf("EigenspaceBasis: %w", err)
	}
	return linalg.NullSpace(b)
}

// scanRange is the scan loop shared by EigenvaluesInRange and the Scanner.
//
// Candidates are visited in ascending order. The context is checked before
// each candidate; on cancellation the eigenpairs found so far are returned
// together with the context error. The loop terminates on lam == hi rather
// than lam > hi so that hi = math.MaxInt64 does not overflow.
//
// Returns the eigenpairs, the number of candidates examined and an error.
func scanRange(ctx context.Context, engine DeterminantEngine, m *linalg.IntMatrix, lo, hi int64, opts Options, reporter ProgressReporter) ([]Eigenpair, uint64, error) {
	if err := linalg.ValidateSquare(m); err != nil {
		return nil, 0, fmt.Errorf("scan: %w", err)
	}
	if lo > hi {
		return nil, 0, nil
	}

	total := Problem{Lo: lo, Hi: hi}.Candidates()
	var (
		pairs        []Eigenpair
		scanned      uint64
		lastReported float64
		lambda       = new(big.Int)
	)
	for lam := lo; ; lam++ {
		if err := ctx.Err(); err != nil {
			return pairs, scanned, err
		}

		b, err := m.Shift(lambda.SetInt64(lam))
		if err != nil {
			return pairs, scanned, err
		}
		det, err := engine.Determinant(b)
		if err != nil {
			return pairs, scanned, fmt.Errorf("lambda %d: %w", lam, err)
		}

		if det.Sign() == 0 {
			pair := Eigenpair{Value: lam}
			if !opts.ValuesOnly {
				basis, err := EigenspaceBasis(b)
				if err != nil {
					return pairs, scanned, fmt.Errorf("lambda %d: %w", lam, err)
				}
				if len(basis) == 0 {
					return pairs, scanned, fmt.Errorf("lambda %d: %w", lam, ErrInconsistentSingularity)
				}
				if opts.Canonical {
					for i, v := range basis {
						basis[i] = linalg.CanonicalizeSign(v)
					}
				}
				pair.Basis = basis
			}
			pairs = append(pairs, pair)
		}

		scanned++
		reportScanProgress(reporter, &lastReported, scanned, total)
		if lam == hi {
			break
		}
	}
	return pairs, scanned, nil
}
