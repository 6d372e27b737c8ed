// Package eigen finds the integer eigenvalues of a square integer matrix by
// scanning a closed integer range, and recovers an exact primitive integer
// basis for each eigenspace.
//
// For every candidate λ the scanner forms B = A - λI, asks a DeterminantEngine
// whether det(B) is zero, and for each hit extracts the null space of B through
// exact rational row reduction. The determinant engines are interchangeable
// (fraction-free Bareiss elimination, cofactor expansion, and a GMP-backed
// Bareiss when built with the "gmp" tag) and are obtained from an
// EngineFactory.
//
// A single scan is sequential and deterministic. Callers that want to compare
// engines run several scans concurrently; scans share no mutable state.
package eigen
