// Package hanoi computes the coordinates shared by the hanoi-ordered site
// assignment algorithms (steady, stretched, tilted): epoch, hanoi value,
// incidence, meta-epoch, and the nested bunch layout.
package hanoi

import (
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Coords locates arrival T on a buffer of S = 2^Log sites.
type Coords[U types.Uint] struct {
	Log       U // s = log2(S)
	BitLen    U // bit length of T
	Epoch     U // t = max(bitlen(T) - s, 0)
	Hanoi     U // h = trailing ones of T
	Incidence U // i = T >> (h+1), arrivals before T sharing hanoi value h
}

// At returns the coordinates of arrival T for buffer size S. S must be a
// power of two.
func At[U types.Uint](S, T U) Coords[U] {
	s := bitops.BitLength(S) - 1
	blT := bitops.BitLength(T)
	h := bitops.CountTrailingOnes(T)
	return Coords[U]{
		Log:       s,
		BitLen:    blT,
		Epoch:     bitops.FloorSubtract(blT, s),
		Hanoi:     h,
		Incidence: bitops.OverflowShr(T, h+1),
	}
}

// MetaEpoch returns tau, the coarse epoch that sizes bunch budgets for
// epoch t.
func MetaEpoch[U types.Uint](t U) U {
	blt := bitops.BitLength(t)
	epsilon := bitops.FromBool[U](bitops.BitFloor(t)<<1 > t+blt)
	return blt - epsilon
}

// BoundedHorizon reports whether arrival T falls before the 2^S - 1 horizon
// of a bounded algorithm. Correct for every S, including S >= Width[U]().
func BoundedHorizon[U types.Uint](S, T U) bool {
	if T == ^U(0) {
		// 2^S - 1 > max(U) only when S exceeds the width.
		return S > bitops.Width[U]()
	}
	return bitops.OverflowShr(T+1, S) == 0
}

// BoundedCapacity returns 2^S - 1, or bounded = false when that exceeds
// what U can count.
func BoundedCapacity[U types.Uint](S U) (U, bool) {
	width := bitops.Width[U]()
	switch {
	case S < width:
		return (U(1) << S) - 1, true
	case S == width:
		return ^U(0), true
	default:
		return 0, false
	}
}

// NestedBunchSite returns the site of hanoi value h within logical bunch bl
// on a buffer of S sites.
//
// Bunches are filled in logical order (decreasing size), but laid out so
// that each nesting level v = bitlen(bl) splits the gaps of the previous
// one: level v places its bunches at physical indices o + w*p, with spacing
// w = S >> v and offset o = w/2.
func NestedBunchSite[U types.Uint](S, bl, h U) U {
	v := bitops.BitLength(bl) // nestedness depth
	var w U                   // spacing between bunches at depth v
	if v != 0 {
		w = bitops.OverflowShr(S, v)
	}
	o := w >> 1
	p := bl - bitops.BitFloor(bl)
	bp := o + w*p // physical bunch index

	// The zeroth bunch starts at site 0; every other bunch is shifted left
	// by one to make room for it.
	eps := bitops.FromBool[U](bl != 0)
	kb := bp<<1 + popcountTwiceSMinus(S, bp) - 1 - eps
	return kb + h
}

// popcountTwiceSMinus returns popcount(2S - bp) without requiring 2S to fit
// in U. When 2S wraps to zero, 0 - bp wraps to 2^w - bp, which has the same
// bits as the true difference for any bp > 0.
func popcountTwiceSMinus[U types.Uint](S, bp U) U {
	if bp == 0 {
		return 1
	}
	return bitops.PopCount(S<<1 - bp)
}

// IngestTime returns the arrival with hanoi value h and incidence i,
// (2i+1)*2^h - 1, wrapping in U.
func IngestTime[U types.Uint](i, h U) U {
	return bitops.OverflowShl(i<<1+1, h) - 1
}

// IngestTimeAtLeast reports whether IngestTime(i, h) >= x, treating values
// that overflow U as larger than any x. i must be below 2^(Width-1).
func IngestTimeAtLeast[U types.Uint](i, h, x U) bool {
	v := i<<1 + 1
	if h >= bitops.Width[U]() || v > ^U(0)>>h {
		return true
	}
	return v<<h-1 >= x
}

// Layout is the segment structure of a full buffer at rank T, as laid down
// by the stretched and tilted algorithms. Sites are grouped into segments;
// within a segment consecutive sites hold consecutive hanoi values.
type Layout[U types.Uint] struct {
	Log      U // s = log2(S)
	Epoch    U // t
	Tau      U // meta-epoch of t
	Invading U // M: segments invading at the current epoch
	W0       U // smallest segment size when meta-epoch Tau opened
	W1       U // smallest segment size when meta-epoch Tau+1 opens
}

// LayoutAt returns the layout of a buffer of S sites after T arrivals.
// Requires T >= S.
func LayoutAt[U types.Uint](S, T U) Layout[U] {
	s := bitops.BitLength(S) - 1
	t := bitops.FloorSubtract(bitops.BitLength(T), s)
	tau := MetaEpoch(t)
	return Layout[U]{
		Log:      s,
		Epoch:    t,
		Tau:      tau,
		Invading: max(bitops.OverflowShr(S, tau+1), 1),
		W0:       bitops.OverflowShl(U(1), tau) - 1,
		W1:       bitops.OverflowShl(U(1), tau+1) - 1,
	}
}

// Slot is a site's position within the layout.
type Slot[U types.Uint] struct {
	Hanoi   U // hanoi value assigned to the site
	Segment U // physical (left-to-right) segment index
	Bunch   U // logical bunch index, in reverse fill order
	Width   U // number of sites in the segment
}

// Walk calls fn for each of the S sites in index order.
func (l Layout[U]) Walk(S U, fn func(k U, s Slot[U])) {
	var h, mp U
	for k := U(0); k < S; k++ {
		bl := bitops.CountTrailingZeros(l.Invading + mp)
		w := l.W1 + bl + bitops.FromBool[U](mp == 0)
		fn(k, Slot[U]{Hanoi: h, Segment: mp, Bunch: bl, Width: w})

		h++
		if h == w {
			mp++
			h = 0
		}
	}
}
