// Package tilted implements bounded-duration site assignment that favors
// recent arrivals while still spanning the whole 2^S - 1 horizon.
//
// The geometry is shared with stretched. Instead of discarding arrivals past
// the bunch budget, tilted wraps them onto the budget's bunches, overwriting
// the oldest entry with the same hanoi value. Near a meta-epoch transition
// the budget is doubled for hanoi values not yet invaded by the next
// meta-epoch, which keeps coverage close to uniform across the horizon.
package tilted

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.tilted_algo"

// ValidSurfaceSize reports whether S is a power of two greater than 1.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 1 && bitops.IsPow2(S)
}

// HasIngestCapacity reports whether S is valid and T < 2^S - 1. Once T
// reaches the horizon the buffer stays full.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S) && hanoi.BoundedHorizon(S, T)
}

// AssignStorageSite returns the site for arrival T. Tilted never discards.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)

	c := hanoi.At(S, T)
	tau := hanoi.MetaEpoch(c.Epoch)

	// First epochs of meta-epochs tau and tau+1.
	t0 := bitops.OverflowShl(U(1), tau) - tau
	t1 := bitops.OverflowShl(U(1), tau+1) - (tau + 1)
	uninvaded := bitops.FromBool[U](c.Epoch < c.Hanoi+t0 && c.Hanoi+t0 < t1)

	B := max(bitops.OverflowShr(S, tau+1-uninvaded), 1) // bunch budget
	bl := c.Incidence % B                                // logical bunch
	return hanoi.NestedBunchSite(S, bl, c.Hanoi), true
}

// Algo packages the tilted functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the tilted algorithm for width U.
func New[U types.Uint]() Algo[U] { return Algo[U]{} }

func (Algo[U]) Name() string                       { return Name }
func (Algo[U]) ValidSurfaceSize(S U) bool          { return ValidSurfaceSize(S) }
func (Algo[U]) HasIngestCapacity(S, T U) bool      { return HasIngestCapacity(S, T) }
func (Algo[U]) AssignStorageSite(S, T U) (U, bool) { return AssignStorageSite(S, T) }

func (Algo[U]) LookupIngestTimes(S, T U) ([]types.Occupant[U], error) {
	return LookupIngestTimes(S, T)
}

// IngestCapacity returns 2^S - 1, or bounded = false when that exceeds U.
func (Algo[U]) IngestCapacity(S U) (U, bool) {
	if !ValidSurfaceSize(S) {
		return 0, true
	}
	return hanoi.BoundedCapacity(S)
}
