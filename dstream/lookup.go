package dstream

import (
	"fmt"

	"github.com/joshuapare/dstreamkit/internal/logger"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Looker is implemented by algorithms that can report buffer occupancy
// without replaying every arrival.
type Looker[U types.Uint] interface {
	LookupIngestTimes(S, T U) ([]types.Occupant[U], error)
}

// LookupIngestTimes reports, for each of the S sites, which arrival occupies
// it once arrivals 0..T-1 have been offered to a. Sites never written are
// returned with Present = false.
//
// Algorithms implementing Looker answer directly; the rest are replayed
// with ReplayIngestTimes.
func LookupIngestTimes[U types.Uint](a Algorithm[U], S, T U) ([]types.Occupant[U], error) {
	if l, ok := a.(Looker[U]); ok {
		return l.LookupIngestTimes(S, T)
	}
	return ReplayIngestTimes(a, S, T)
}

// HasClosedForm reports whether LookupIngestTimes answers for a without
// replaying arrivals. Composite algorithms report whether every part does.
func HasClosedForm[U types.Uint](a Algorithm[U]) bool {
	if c, ok := a.(interface{ ClosedForm() bool }); ok {
		return c.ClosedForm()
	}
	_, ok := a.(Looker[U])
	return ok
}

// ReplayIngestTimes computes occupancy by calling a.AssignStorageSite for
// every arrival 0..T-1, so it costs O(T) calls. Each replayed arrival must
// have ingest capacity; otherwise a horizon error is returned.
func ReplayIngestTimes[U types.Uint](a Algorithm[U], S, T U) ([]types.Occupant[U], error) {
	if !a.ValidSurfaceSize(S) {
		return nil, types.PreconditionError(a.Name(), false, uint64(S), uint64(T))
	}
	sites, err := NewSites(a.Name(), S)
	if err != nil {
		return nil, err
	}

	logger.Debug("replaying site assignment", "algo", a.Name(), "S", uint64(S), "T", uint64(T))

	for ingest := U(0); ingest < T; ingest++ {
		d, err := Assign(a, S, ingest)
		if err != nil {
			return nil, err
		}
		if site, ok := d.Assigned(); ok {
			sites[uint64(site)] = types.Occupant[U]{IngestTime: ingest, Present: true}
		}
	}
	return sites, nil
}

// NewSites allocates an empty occupancy report for S sites, or returns an
// overflow error when S is not addressable.
func NewSites[U types.Uint](algo string, S U) ([]types.Occupant[U], error) {
	if uint64(S) > uint64(maxInt) {
		return nil, &types.Error{
			Kind: types.ErrKindOverflow,
			Msg:  fmt.Sprintf("%s: surface size S=%d exceeds addressable memory", algo, uint64(S)),
		}
	}
	return make([]types.Occupant[U], int(S)), nil
}

const maxInt = int(^uint(0) >> 1)
