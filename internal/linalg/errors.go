package linalg

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every message starts with "linalg:" and callers match them
// with errors.Is, also when wrapped with the name of the failing operation.
var (
	// ErrMalformedMatrix is returned for nil, empty or ragged input, and for
	// non-square input where a square matrix is required.
	ErrMalformedMatrix = errors.New("linalg: malformed matrix")

	// ErrDimensionMismatch indicates incompatible operand sizes, e.g. a vector
	// whose length differs from the column count in MulVec.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrOutOfRange indicates that a row or column index is outside the matrix.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrInexactDivision signals that a Bareiss update left a remainder.
	// Sylvester's identity guarantees exactness, so this is an internal
	// invariant violation and never a property of the input.
	ErrInexactDivision = errors.New("linalg: inexact division in fraction-free elimination")
)

// matrixErrorf tags err with the name of the operation that produced it.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
