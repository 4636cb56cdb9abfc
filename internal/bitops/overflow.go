package bitops

import "github.com/joshuapare/dstreamkit/pkg/types"

// OverflowShl shifts a left by n, returning 0 when n >= Width[U]().
func OverflowShl[U types.Uint](a, n U) U {
	if n >= Width[U]() {
		return 0
	}
	return a << n
}

// OverflowShr shifts a right by n, returning 0 when n >= Width[U]().
func OverflowShr[U types.Uint](a, n U) U {
	if n >= Width[U]() {
		return 0
	}
	return a >> n
}

// AddOverflowSafe adds a and b, returning ok = false when the result would wrap.
func AddOverflowSafe[U types.Uint](a, b U) (U, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would wrap.
// Used for capacity * chunk-count calculations in hybrid layouts.
func MulOverflowSafe[U types.Uint](a, b U) (U, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}
