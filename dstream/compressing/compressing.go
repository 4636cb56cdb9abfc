// Package compressing implements geometric-thinning site assignment.
//
// For even S, site 0 permanently holds arrival 0 and the remaining M = S-1
// sites are overwritten round-robin; for odd S all M = S sites rotate. Each
// time the rotation wraps, the sampling interval doubles, so the buffer keeps
// dense recent coverage and exponentially sparser older history.
package compressing

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Name is the dstream identifier of this algorithm.
const Name = "dstream.compressing_algo"

// ValidSurfaceSize reports whether S is positive. Powers of two are the
// common case, but any positive size is accepted.
func ValidSurfaceSize[U types.Uint](S U) bool {
	return S > 0
}

// HasIngestCapacity reports whether arrival T can be ingested. Duration is
// unlimited.
func HasIngestCapacity[U types.Uint](S, T U) bool {
	return ValidSurfaceSize(S)
}

// AssignStorageSite returns the site for arrival T, or ok = false when T
// falls between samples of the current sampling interval.
func AssignStorageSite[U types.Uint](S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](Algo[U]{}, S, T)

	var anchor U // sites reserved ahead of the rotation
	M := S
	if S%2 == 0 {
		if T == 0 {
			return 0, true
		}
		anchor, M, T = 1, S-1, T-1
	}

	si := bitops.BitLength(T / M)                 // current sampling interval
	h := bitops.CountTrailingZeros(max(T, U(1))) // current hanoi value
	if h < si {
		return 0, false
	}
	return T%M + anchor, true
}

// Algo packages the compressing functions as a dstream.Algorithm.
type Algo[U types.Uint] struct{}

var (
	_ dstream.Algorithm[uint64] = Algo[uint64]{}
	_ dstream.Looker[uint64]    = Algo[uint64]{}
)

// New returns the compressing algorithm for width U.
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
