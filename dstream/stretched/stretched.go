// Package stretched implements bounded-duration site assignment that keeps
// the whole ingest history evenly represented up to the 2^S - 1 horizon.
//
// Each hanoi value gets a budget of bunches that shrinks with the meta-epoch.
// Bunches are laid out nested, so newly admitted depths fill the gaps left
// by earlier ones. Arrivals beyond the budget for their hanoi value are
// discarded.
package stretched

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.stretched_algo"

// ValidSurfaceSize reports whether S is a power of two greater than 1.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 1 && bitops.IsPow2(S)
}

// HasIngestCapacity reports whether S is valid and T < 2^S - 1. Once T
// reaches the horizon the buffer stays full.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S) && hanoi.BoundedHorizon(S, T)
}

// AssignStorageSite returns the site for arrival T, or ok = false when the
// bunch budget for T's hanoi value is already spent.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)

	c := hanoi.At(S, T)
	tau := hanoi.MetaEpoch(c.Epoch)
	b := max(bitops.OverflowShr(S, tau+1), 1) // bunch budget for this hanoi value
	if c.Incidence >= b {
		return 0, false
	}
	return hanoi.NestedBunchSite(S, c.Incidence, c.Hanoi), true
}

// Algo packages the stretched functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the stretched algorithm for width U.
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
