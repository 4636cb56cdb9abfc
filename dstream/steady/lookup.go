package steady

import (
	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/internal/hanoi"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been ingested, in O(S log T) time.
//
// An arrival with hanoi value h is kept only while h >= its epoch, which
// holds for every arrival below 2^(h+s). For each h the latest S kept
// arrivals are placed; fewer than S/2 newer arrivals of the same hanoi value
// ever separate a site's occupant from T, so the newest arrival placed on
// each site is its occupant.
func LookupIngestTimes[U types.Uint](S, T U) ([]types.Occupant[U], error) {
	if !ValidSurfaceSize(S) {
		return nil, types.PreconditionError(Name, false, uint64(S), uint64(T))
	}
	sites, err := dstream.NewSites(Name, S)
	if err != nil {
		return nil, err
	}

	s := bitops.BitLength(S) - 1
	for h := U(0); h <= bitops.BitLength(T); h++ {
		limit := T
		if kept := bitops.OverflowShl(U(1), h+s); kept != 0 && kept < limit {
			limit = kept
		}
		n := bitops.OverflowShr(limit, h) // arrivals below limit with hanoi value >= h
		if n == 0 {
			continue
		}

		i := (n - 1) >> 1 // latest incidence below limit
		for placed := U(0); placed < S; placed++ {
			ingest := hanoi.IngestTime(i, h)
			if site, ok := AssignStorageSite(S, ingest); ok {
				if o := &sites[uint64(site)]; !o.Present || o.IngestTime < ingest {
					*o = types.Occupant[U]{IngestTime: ingest, Present: true}
				}
			}
			if i == 0 {
				break
			}
			i--
		}
	}
	return sites, nil
}
