package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
)

// DefaultEngine is used when a request does not name an engine.
const DefaultEngine = "bareiss"

var (
	// ErrMatrixTooLarge is returned when the matrix order exceeds the
	// configured maximum.
	ErrMatrixTooLarge = errors.New("matrix order exceeds the configured maximum")
	// ErrRangeTooWide is returned when hi-lo+1 exceeds the configured maximum.
	ErrRangeTooWide = errors.New("lambda range exceeds the configured maximum width")
)

// Service is the transport-independent entry point for determinant and
// eigenvalue requests.
type Service interface {
	// Determinant computes det(m) with the named engine.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - engine: A registered engine name; empty selects DefaultEngine.
	//   - m: The matrix.
	//
	// Returns:
	//   - *big.Int: The determinant.
	//   - error: A validation error, eigen.ErrUnknownEngine or an engine error.
	Determinant(ctx context.Context, engine string, m *linalg.IntMatrix) (*big.Int, error)

	// Scan searches p for integer eigenvalues with the named engine.
	Scan(ctx context.Context, engine string, p eigen.Problem, opts eigen.Options) (*eigen.Report, error)

	// Engines returns the registered engine names in sorted order.
	Engines() []string
}

// EigenService validates requests against the configured limits and runs
// them on scanners from an engine factory.
type EigenService struct {
	factory       eigen.EngineFactory
	maxDim        int
	maxRangeWidth uint64
}

var _ Service = (*EigenService)(nil)

// NewEigenService creates an EigenService.
//
// Parameters:
//   - factory: Supplies the scanners.
//   - maxDim: The largest accepted matrix order (0 for no limit).
//   - maxRangeWidth: The largest accepted number of candidates (0 for no limit).
func NewEigenService(factory eigen.EngineFactory, maxDim int, maxRangeWidth uint64) *EigenService {
	return &EigenService{
		factory:       factory,
		maxDim:        maxDim,
		maxRangeWidth: maxRangeWidth,
	}
}

func (s *EigenService) validateMatrix(m *linalg.IntMatrix) error {
	if err := linalg.ValidateSquare(m); err != nil {
		return err
	}
	if s.maxDim > 0 && m.Rows() > s.maxDim {
		return fmt.Errorf("%w: %d > %d", ErrMatrixTooLarge, m.Rows(), s.maxDim)
	}
	return nil
}

func (s *EigenService) scanner(engine string) (eigen.Scanner, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	return s.factory.Get(engine)
}

// Determinant implements Service.
func (s *EigenService) Determinant(ctx context.Context, engine string, m *linalg.IntMatrix) (*big.Int, error) {
	if err := s.validateMatrix(m); err != nil {
		return nil, err
	}
	sc, err := s.scanner(engine)
	if err != nil {
		return nil, err
	}
	return sc.Determinant(ctx, m)
}

// Scan implements Service. An empty range (Lo > Hi) is valid and yields a
// report with no eigenpairs.
func (s *EigenService) Scan(ctx context.Context, engine string, p eigen.Problem, opts eigen.Options) (*eigen.Report, error) {
	if err := s.validateMatrix(p.Matrix); err != nil {
		return nil, err
	}
	if s.maxRangeWidth > 0 && p.Candidates() > s.maxRangeWidth {
		return nil, fmt.Errorf("%w: [%d, %d] has more than %d candidates", ErrRangeTooWide, p.Lo, p.Hi, s.maxRangeWidth)
	}
	sc, err := s.scanner(engine)
	if err != nil {
		return nil, err
	}
	// Progress is not streamed to service callers.
	return sc.Scan(ctx, nil, 0, p, opts)
}

// Engines implements Service.
func (s *EigenService) Engines() []string {
	return s.factory.List()
}
