package linalg

import (
	"math/big"
	"strings"
)

// GCD returns the non-negative greatest common divisor of the entries of v.
// It is 0 only when every entry is 0.
func GCD(v []*big.Int) *big.Int {
	g := new(big.Int)
	abs := new(big.Int)
	for _, e := range v {
		g.GCD(nil, nil, g, abs.Abs(e))
	}
	return g
}

// Primitive returns a copy of v divided by the GCD of its entries. The zero
// vector is returned unchanged.
func Primitive(v []*big.Int) []*big.Int {
	g := GCD(v)
	out := make([]*big.Int, len(v))
	for i, e := range v {
		out[i] = new(big.Int).Set(e)
		if g.Sign() != 0 {
			out[i].Quo(out[i], g)
		}
	}
	return out
}

// IsPrimitive reports whether the entries of v have GCD 1.
func IsPrimitive(v []*big.Int) bool {
	return GCD(v).Cmp(big.NewInt(1)) == 0
}

// IsZeroVector reports whether every entry of v is 0.
func IsZeroVector(v []*big.Int) bool {
	for _, e := range v {
		if e.Sign() != 0 {
			return false
		}
	}
	return true
}

// CanonicalizeSign returns a copy of v whose first non-zero entry is positive.
func CanonicalizeSign(v []*big.Int) []*big.Int {
	neg := false
	for _, e := range v {
		if e.Sign() != 0 {
			neg = e.Sign() < 0
			break
		}
	}
	out := make([]*big.Int, len(v))
	for i, e := range v {
		out[i] = new(big.Int).Set(e)
		if neg {
			out[i].Neg(out[i])
		}
	}
	return out
}

// FormatVector renders v as "[a, b, c]".
func FormatVector(v []*big.Int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
