// Package bitops contains width-generic bit primitives for the site
// assignment algorithms.
//
// Every function is total: shift amounts at or beyond the operand width,
// zero inputs, and all-ones inputs have defined results, so callers never
// need to special-case the integer width they were instantiated with.
package bitops

import (
	"math/bits"

	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Width returns the number of bits in U.
func Width[U types.Uint]() U {
	return U(bits.Len64(uint64(^U(0))))
}

// BitLength returns the 1-based position of the highest set bit, or 0 for 0.
func BitLength[U types.Uint](x U) U {
	return U(bits.Len64(uint64(x)))
}

// BitFloor returns the largest power of two <= x. Returns 0 when x is 0.
func BitFloor[U types.Uint](x U) U {
	if x == 0 {
		return 0
	}
	return U(1) << (BitLength(x) - 1)
}

// CountTrailingZeros returns the number of trailing zero bits in x.
// Returns Width[U]() when x is 0.
func CountTrailingZeros[U types.Uint](x U) U {
	if x == 0 {
		return Width[U]()
	}
	return U(bits.TrailingZeros64(uint64(x)))
}

// CountTrailingOnes returns the number of trailing one bits in x, which is
// the hanoi value of x. Returns Width[U]() when every bit is set.
func CountTrailingOnes[U types.Uint](x U) U {
	return CountTrailingZeros(^x)
}

// PopCount returns the number of set bits in x.
func PopCount[U types.Uint](x U) U {
	return U(bits.OnesCount64(uint64(x)))
}

// IsPow2 reports whether x is a power of two. Zero is not.
func IsPow2[U types.Uint](x U) bool {
	return x != 0 && x&(x-1) == 0
}

// ModPow2 returns x mod n for a power-of-two n.
func ModPow2[U types.Uint](x, n U) U {
	return x & (n - 1)
}

// FloorSubtract returns a-b, or 0 when b > a.
func FloorSubtract[U types.Uint](a, b U) U {
	return a - min(a, b)
}

// FromBool converts b to 1 or 0.
func FromBool[U types.Uint](b bool) U {
	if b {
		return 1
	}
	return 0
}

// CanFit reports whether v is representable in U without loss.
func CanFit[U types.Uint](v uint64) bool {
	return uint64(U(v)) == v
}
