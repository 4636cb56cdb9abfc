package stretched

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been ingested, in O(S) time once the buffer has filled.
//
// Each site is decoded from its slot in the segment layout: the slot's
// hanoi value and incidence name the arrival that should be there. If that
// arrival has not happened yet, the site still holds its occupant from when
// the current meta-epoch opened.
func LookupIngestTimes[U types.Uint](S, T U) ([]types.Occupant[U], error) {
	if !ValidSurfaceSize(S) {
		return nil, types.PreconditionError(Name, false, uint64(S), uint64(T))
	}
	if T > 0 && !HasIngestCapacity(S, T-1) {
		return nil, types.PreconditionError(Name, true, uint64(S), uint64(T-1))
	}
	if T < S {
		return dstream.ReplayIngestTimes[U](Algo[U]{}, S, T)
	}

	sites, err := dstream.NewSites(Name, S)
	if err != nil {
		return nil, err
	}

	l := hanoi.LayoutAt(S, T)
	l.Walk(S, func(k U, s hanoi.Slot[U]) {
		h := s.Hanoi
		i := (l.Invading + s.Segment) >> (s.Bunch + 1)
		if hanoi.IngestTimeAtLeast(i, h, T) {
			h -= s.Width - l.W0
			i = l.Invading + s.Segment
		}
		sites[uint64(k)] = types.Occupant[U]{IngestTime: hanoi.IngestTime(i, h), Present: true}
	})
	return sites, nil
}
