// Package steady implements unbounded-duration, hanoi-ordered site
// assignment for power-of-two buffers.
//
// Arrivals are ranked by hanoi value (trailing ones of T). Each epoch drops
// the lowest surviving hanoi value, and the buffer is divided into bunches
// that hold one segment of consecutive hanoi values each, so retained
// arrivals thin out evenly as the stream ages.
package steady

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.steady_algo"

// ValidSurfaceSize reports whether S is a power of two greater than 1.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 1 && bitops.IsPow2(S)
}

// HasIngestCapacity reports whether arrival T can be ingested. Duration is
// unlimited, so only S is checked.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S)
}

// AssignStorageSite returns the site for arrival T, or ok = false when T's
// hanoi value has already aged out of the buffer.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)

	c := hanoi.At(S, T)
	if c.Hanoi < c.Epoch {
		return 0, false
	}

	var kb, o, w U // bunch start, offset within bunch, segment width
	if c.Incidence == 0 {
		w = c.Log + 1
	} else {
		j := bitops.BitFloor(c.Incidence) - 1
		B := bitops.BitLength(j) // bunch index
		kb = bitops.OverflowShl(U(1), B) * (c.Log - B + 1)
		w = c.Hanoi + c.Log + 1 - c.BitLen
		o = w * (c.Incidence - j - 1)
	}
	p := c.Hanoi % w
	return kb + o + p, true
}

// Algo packages the steady functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the steady algorithm for width U.
func New[U types.Uint]() Algo[U] { return Algo[U]{} }

func (Algo[U]) Name() string                       { return Name }
func (Algo[U]) ValidSurfaceSize(S U) bool          { return ValidSurfaceSize(S) }
func (Algo[U]) HasIngestCapacity(S, T U) bool      { return HasIngestCapacity(S, T) }
func (Algo[U]) AssignStorageSite(S, T U) (U, bool) { return AssignStorageSite(S, T) }

func (Algo[U]) LookupIngestTimes(S, T U) ([]types.Occupant[U], error) {
	return LookupIngestTimes(S, T)
}

// IngestCapacity is unlimited for any valid S.
func (Algo[U]) IngestCapacity(S U) (U, bool) {
	return 0, !ValidSurfaceSize(S)
}
