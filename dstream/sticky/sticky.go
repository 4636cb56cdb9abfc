// Package sticky implements fill-once site assignment: the first S arrivals
// fill sites 0..S-1 left to right and are never evicted. Every later arrival
// is discarded.
package sticky

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.sticky_algo"

// ValidSurfaceSize reports whether S is positive. Any positive size works.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 0
}

// HasIngestCapacity reports whether arrival T can be ingested. Later
// arrivals are discarded rather than refused, so only S is checked.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S)
}

// AssignStorageSite returns T while T < S and discards afterwards.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)
	if T < S {
		return T, true
	}
	return 0, false
}

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been offered.
func LookupIngestTimes[U types.Uint](S, T U) ([]types.Occupant[U], error) {
	if !ValidSurfaceSize(S) {
		return nil, types.PreconditionError(Name, false, uint64(S), uint64(T))
	}
	sites, err := dstream.NewSites(Name, S)
	if err != nil {
		return nil, err
	}
	for k := U(0); k < min(S, T); k++ {
		sites[uint64(k)] = types.Occupant[U]{IngestTime: k, Present: true}
	}
	return sites, nil
}

// Algo packages the sticky functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the sticky algorithm for width U.
func New[U types.Uint]() Algo[U] { return Algo[U]{} }

func (Algo[U]) Name() string                       { return Name }
func (Algo[U]) ValidSurfaceSize(S U) bool          { return ValidSurfaceSize(S) }
func (Algo[U]) HasIngestCapacity(S, T U) bool      { return HasIngestCapacity(S, T) }
func (Algo[U]) AssignStorageSite(S, T U) (U, bool) { return AssignStorageSite(S, T) }

func (Algo[U]) LookupIngestTimes(S, T U) ([]types.Occupant[U], error) {
	return LookupIngestTimes(S, T)
}

// IngestCapacity is unlimited for any valid S; late arrivals are discarded.
func (Algo[U]) IngestCapacity(S U) (U, bool) {
	return 0, !ValidSurfaceSize(S)
}
