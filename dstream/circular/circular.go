// Package circular implements ring-buffer site assignment: arrival T
// overwrites site T mod S, so the buffer always holds the S most recent
// arrivals.
package circular

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.circular_algo"

// ValidSurfaceSize reports whether S is a power of two greater than 1.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 1 && bitops.IsPow2(S)
}

// HasIngestCapacity reports whether arrival T can be ingested. Duration is
// unlimited, so only S is checked.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S)
}

// AssignStorageSite returns T mod S. Panics if S is invalid.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)
	return bitops.ModPow2(T, S), true
}

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been ingested.
func LookupIngestTimes[U types.Uint](S, T U) ([]types.Occupant[U], error) {
	if !ValidSurfaceSize(S) {
		return nil, types.PreconditionError(Name, false, uint64(S), uint64(T))
	}
	sites, err := dstream.NewSites(Name, S)
	if err != nil {
		return nil, err
	}
	if T <= S {
		for k := U(0); k < T; k++ {
			sites[uint64(k)] = types.Occupant[U]{IngestTime: k, Present: true}
		}
		return sites, nil
	}

	last := T - 1
	r := bitops.ModPow2(last, S) // site of the newest arrival
	base := last - r             // arrival at site 0 in the newest round
	for k := U(0); k < S; k++ {
		ingest := base + k
		if k > r {
			ingest = base - (S - k)
		}
		sites[uint64(k)] = types.Occupant[U]{IngestTime: ingest, Present: true}
	}
	return sites, nil
}

// Algo packages the circular functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the circular algorithm for width U.
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
