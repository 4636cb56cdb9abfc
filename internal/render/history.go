// Package render draws text reports of buffer occupancy for the dstreamctl
// commands: per-site ingest tables and deposition-depth heatmaps.
package render

import (
	"math"
	"math/bits"
	"sort"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Snapshot is the buffer state after Rank arrivals have been offered.
type Snapshot struct {
	Rank  uint64
	Sites []types.Occupant[uint64]
}

// History replays arrivals 0..max(ranks)-1 through a on S sites and
// snapshots the buffer at every requested rank. Ranks must fall within the
// algorithm's ingest capacity.
func History(a dstream.Algorithm[uint64], S uint64, ranks []uint64) ([]Snapshot, error) {
	if !a.ValidSurfaceSize(S) {
		return nil, types.PreconditionError(a.Name(), false, S, 0)
	}
	sorted := append([]uint64(nil), ranks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]types.Occupant[uint64], S)
	out := make([]Snapshot, 0, len(sorted))

	var T uint64
	for _, rank := range sorted {
		for ; T < rank; T++ {
			d, err := dstream.Assign(a, S, T)
			if err != nil {
				return nil, err
			}
			if site, ok := d.Assigned(); ok {
				buf[site] = types.Occupant[uint64]{IngestTime: T, Present: true}
			}
		}
		out = append(out, Snapshot{Rank: rank, Sites: append([]types.Occupant[uint64](nil), buf...)})
	}
	return out, nil
}

// GeomRanks returns up to n distinct ranks in [1, maxRank], spaced
// geometrically so early history and late history get similar row counts.
func GeomRanks(maxRank uint64, n int) []uint64 {
	if maxRank == 0 || n <= 0 {
		return nil
	}
	if uint64(n) >= maxRank {
		return LinRanks(maxRank, int(maxRank))
	}
	if n == 1 {
		return []uint64{maxRank}
	}

	ranks := make([]uint64, 0, n)
	ratio := math.Pow(float64(maxRank), 1/float64(n-1))
	v := 1.0
	var last uint64
	for i := 0; i < n; i++ {
		r := maxRank
		if v < float64(maxRank) {
			r = uint64(v + 0.5)
		}
		if i == n-1 || r > maxRank {
			r = maxRank
		}
		if r > last {
			ranks = append(ranks, r)
			last = r
		}
		v *= ratio
	}
	return ranks
}

// LinRanks returns n evenly spaced ranks ending at maxRank.
func LinRanks(maxRank uint64, n int) []uint64 {
	if maxRank == 0 || n <= 0 {
		return nil
	}
	if uint64(n) > maxRank {
		n = int(maxRank)
	}
	ranks := make([]uint64, n)
	for i := range ranks {
		hi, lo := bits.Mul64(maxRank, uint64(i+1))
		ranks[i], _ = bits.Div64(hi, lo, uint64(n))
	}
	return ranks
}
