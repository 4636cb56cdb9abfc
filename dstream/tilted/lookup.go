package tilted

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been ingested, in O(S) time once the buffer has filled.
//
// Sites hold hanoi values as a ring buffer per bunch, so the occupant is the
// latest incidence of the slot's hanoi value congruent to the slot's bunch.
// Two cases shift that slot: a segment being invaded during the current
// meta-epoch has its hanoi value lowered, and a segment doing the invading
// still runs a ring buffer twice as long until the epoch refills it.
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
	t0 := bitops.OverflowShl(U(1), l.Tau) - l.Tau // opening epoch of the meta-epoch
	elapsed := l.Epoch - t0                        // epochs since the meta-epoch opened
	T0 := bitops.BitFloor(T)                       // opening rank of the current epoch
	refilling := bitops.BitLength(T) < S           // epoch t < S - s

	l.Walk(S, func(k U, s hanoi.Slot[U]) {
		grown := s.Width - l.W0
		bunch := (l.Invading + s.Segment) >> (s.Bunch + 1)

		// Invaded segment: later this meta-epoch, or now but not yet reached.
		invadedLater := s.Hanoi > grown+elapsed
		invadedNow := s.Hanoi == grown+elapsed && hanoi.IngestTimeAtLeast(bunch, s.Hanoi, T)
		// Invading segment with its doubled ring buffer still intact.
		invadingLater := refilling && elapsed < s.Hanoi && s.Hanoi < l.W0
		invadingNow := refilling && s.Hanoi == elapsed && hanoi.IngestTimeAtLeast(bunch, s.Hanoi, T-T0)

		invaded := invadedLater || invadedNow
		M, h, Tc, m := l.Invading, s.Hanoi, T, bunch
		if invaded || invadingLater || invadingNow {
			M <<= 1
		}
		if invaded {
			h -= grown
			m = l.Invading + s.Segment
		}
		if invadedNow || invadingNow {
			Tc = T0 // snap back to the start of the epoch
		}

		// Incidences of h seen by Tc, less one, then the latest one whose
		// ring position lands on this bunch.
		j := bitops.OverflowShr(Tc, h+1) + bitops.OverflowShr(Tc, h)&1 - 1
		i := j - bitops.ModPow2(j+M-m, M)
		sites[uint64(k)] = types.Occupant[U]{IngestTime: hanoi.IngestTime(i, h), Present: true}
	})
	return sites, nil
}
