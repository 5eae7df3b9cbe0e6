package bpmath

import "math/big"

// Scale is one whole unit expressed in basis points (100%).
const Scale int64 = 10_000

// MulDiv computes a*num/den with a 128-bit intermediate so amount×bp
// products cannot overflow int64. Division truncates toward zero.
func MulDiv(a, num, den int64) int64 {
	if den == 0 {
		panic("bpmath: division by zero")
	}
	p := new(big.Int).Mul(big.NewInt(a), big.NewInt(num))
	p.Quo(p, big.NewInt(den))
	return p.Int64()
}

// ApplyBp returns amount×bp/10000, truncated toward zero.
func ApplyBp(amount, bp int64) int64 {
	return MulDiv(amount, bp, Scale)
}

// Ratio returns part/whole expressed in basis points, truncated toward zero.
// whole must be positive.
func Ratio(part, whole int64) int64 {
	return MulDiv(part, Scale, whole)
}

func Clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
