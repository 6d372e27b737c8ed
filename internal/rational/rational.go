// Package rational provides an exact, arbitrary-precision rational number
// value type used by the row-reduction and null-space code.
//
// A Rational is always stored in lowest terms with a strictly positive
// denominator, and zero is always 0/1. Every constructor and every arithmetic
// operation returns a value satisfying these invariants, so callers never
// need to normalize by hand.
package rational

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Errors returned by functions in this package.
var (
	// ErrDivideByZero is returned when a rational would be built with a zero
	// denominator, either directly or by dividing by zero.
	ErrDivideByZero = errors.New("rational: division by zero")
	// ErrFmtInvalid is returned by Parse for malformed input.
	ErrFmtInvalid = errors.New("rational: invalid number format")
)

var bigOne = big.NewInt(1)

// Rational is an exact fraction num/den of arbitrary-precision integers.
//
// Rational has value semantics: the big.Int values it holds are never mutated
// after construction and never handed out directly, so values can be copied
// and shared freely. The zero value is valid and equal to 0/1.
type Rational struct {
	num *big.Int // nil means 0
	den *big.Int // nil means 1
}

// New returns num/den in lowest terms. It returns ErrDivideByZero if den is
// zero. The arguments are not retained.
//
// Parameters:
//   - num: The numerator.
//   - den: The denominator; must be non-zero.
//
// Returns:
//   - Rational: The normalized fraction.
//   - error: ErrDivideByZero if den is zero.
func New(num, den *big.Int) (Rational, error) {
	if den == nil || den.Sign() == 0 {
		return Rational{}, ErrDivideByZero
	}
	n := new(big.Int)
	if num != nil {
		n.Set(num)
	}
	return normalize(n, new(big.Int).Set(den)), nil
}

// MustNew is like New but panics if den is zero.
func MustNew(num, den int64) Rational {
	r, err := New(big.NewInt(num), big.NewInt(den))
	if err != nil {
		panic(err)
	}
	return r
}

// FromInt returns the integer v as a Rational with denominator 1.
func FromInt(v *big.Int) Rational {
	if v == nil || v.Sign() == 0 {
		return Rational{}
	}
	return Rational{num: new(big.Int).Set(v)}
}

// FromInt64 returns v as a Rational with denominator 1.
func FromInt64(v int64) Rational {
	if v == 0 {
		return Rational{}
	}
	return Rational{num: big.NewInt(v)}
}

// Zero returns 0/1.
func Zero() Rational { return Rational{} }

// One returns 1/1.
func One() Rational { return FromInt64(1) }

// normalize takes ownership of n and d, which must be freshly allocated, and
// reduces them to canonical form. d must be non-zero.
func normalize(n, d *big.Int) Rational {
	if n.Sign() == 0 {
		return Rational{}
	}
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Cmp(bigOne) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	if d.Cmp(bigOne) == 0 {
		return Rational{num: n}
	}
	return Rational{num: n, den: d}
}

func (x Rational) n() *big.Int {
	if x.num == nil {
		return new(big.Int)
	}
	return x.num
}

func (x Rational) d() *big.Int {
	if x.den == nil {
		return bigOne
	}
	return x.den
}

// Num returns a copy of the numerator.
func (x Rational) Num() *big.Int { return new(big.Int).Set(x.n()) }

// Den returns a copy of the denominator, which is always positive.
func (x Rational) Den() *big.Int { return new(big.Int).Set(x.d()) }

// IsZero reports whether x == 0.
func (x Rational) IsZero() bool { return x.num == nil || x.num.Sign() == 0 }

// IsInt reports whether the denominator of x is 1.
func (x Rational) IsInt() bool { return x.d().Cmp(bigOne) == 0 }

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Rational) Sign() int { return x.n().Sign() }

// Add returns x + y.
func (x Rational) Add(y Rational) Rational {
	n := new(big.Int).Mul(x.n(), y.d())
	n.Add(n, new(big.Int).Mul(y.n(), x.d()))
	return normalize(n, new(big.Int).Mul(x.d(), y.d()))
}

// Sub returns x - y.
func (x Rational) Sub(y Rational) Rational {
	n := new(big.Int).Mul(x.n(), y.d())
	n.Sub(n, new(big.Int).Mul(y.n(), x.d()))
	return normalize(n, new(big.Int).Mul(x.d(), y.d()))
}

// Mul returns x * y.
func (x Rational) Mul(y Rational) Rational {
	return normalize(new(big.Int).Mul(x.n(), y.n()), new(big.Int).Mul(x.d(), y.d()))
}

// Quo returns x / y, or ErrDivideByZero if y is zero.
func (x Rational) Quo(y Rational) (Rational, error) {
	if y.IsZero() {
		return Rational{}, ErrDivideByZero
	}
	return normalize(new(big.Int).Mul(x.n(), y.d()), new(big.Int).Mul(x.d(), y.n())), nil
}

// Neg returns -x.
func (x Rational) Neg() Rational {
	if x.IsZero() {
		return Rational{}
	}
	return Rational{num: new(big.Int).Neg(x.num), den: x.den}
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rational) Cmp(y Rational) int {
	l := new(big.Int).Mul(x.n(), y.d())
	return l.Cmp(new(big.Int).Mul(y.n(), x.d()))
}

// Equal reports whether x and y denote the same number. Because both are in
// lowest terms this is a component-wise comparison.
func (x Rational) Equal(y Rational) bool {
	return x.n().Cmp(y.n()) == 0 && x.d().Cmp(y.d()) == 0
}

// String formats x as "n" when it is an integer and "n/d" otherwise.
func (x Rational) String() string {
	if x.IsInt() {
		return x.n().String()
	}
	return x.n().String() + "/" + x.d().String()
}

// Parse parses "n" or "n/d" with base-10 integers of any size. Only the
// numerator may carry a sign. The result is in lowest terms.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, hasDen := strings.Cut(s, "/")
	num, ok := new(big.Int).SetString(numStr, 10)
	if !ok {
		return Rational{}, fmt.Errorf("parsing numerator %q: %w", numStr, ErrFmtInvalid)
	}
	if !hasDen {
		return FromInt(num), nil
	}
	if strings.HasPrefix(denStr, "-") || strings.HasPrefix(denStr, "+") {
		return Rational{}, fmt.Errorf("signed denominator %q: %w", denStr, ErrFmtInvalid)
	}
	den, ok := new(big.Int).SetString(denStr, 10)
	if !ok {
		return Rational{}, fmt.Errorf("parsing denominator %q: %w", denStr, ErrFmtInvalid)
	}
	return New(num, den)
}
