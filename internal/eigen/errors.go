package eigen

import "errors"

var (
	// ErrInconsistentSingularity is returned when an engine reports
	// det(A - λI) = 0 but row reduction finds no free column. For an exactly
	// singular square matrix this cannot happen, so it always signals a defect
	// in one of the two paths.
	ErrInconsistentSingularity = errors.New("eigen: zero determinant but empty null space")

	// ErrOrderUnsupported is returned by engines that cap the matrix order.
	ErrOrderUnsupported = errors.New("eigen: matrix order not supported by engine")

	// ErrUnknownEngine is returned by the factory for unregistered names.
	ErrUnknownEngine = errors.New("eigen: unknown engine")
)
