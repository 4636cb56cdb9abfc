package compressing

import (
	"math/bits"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// LookupIngestTimes returns the arrival held at each site once arrivals
// 0..T-1 have been offered, without replaying them.
//
// Within the rotation, site k holds the newest multiple of the sampling
// interval congruent to k modulo M. That multiple is recovered with the
// modular inverse of the interval, trying the current interval first and
// the previous one for sites not yet revisited.
func LookupIngestTimes[U types.Uint](S, T U) ([]types.Occupant[U], error) {
	if !ValidSurfaceSize(S) {
		return nil, types.PreconditionError(Name, false, uint64(S), uint64(T))
	}

	sites, err := dstream.NewSites(Name, S)
	if err != nil {
		return nil, err
	}
	if T < S {
		// Before the buffer fills, arrival k sits at site k.
		for k, v := range lookupFilled(uint64(S), uint64(S)) {
			if v.Present && v.IngestTime < uint64(T) {
				sites[k] = types.Occupant[U]{IngestTime: U(v.IngestTime), Present: true}
			}
		}
		return sites, nil
	}

	for k, v := range lookupFilled(uint64(S), uint64(T)) {
		sites[k] = types.Occupant[U]{IngestTime: U(v.IngestTime), Present: v.Present}
	}
	return sites, nil
}

// lookupFilled handles T >= S.
func lookupFilled(S, T uint64) []types.Occupant[uint64] {
	res := make([]types.Occupant[uint64], S)

	var anchor uint64
	M, Tr := S, T // rotation length and arrivals seen by the rotation
	if S%2 == 0 {
		res[0] = types.Occupant[uint64]{IngestTime: 0, Present: true}
		anchor, M, Tr = 1, S-1, T-1
	}

	si := bitops.BitLength((Tr - 1) / M)
	for k := uint64(0); k < M; k++ {
		for delta := uint64(0); delta <= 1; delta++ {
			interval := bitops.OverflowShl(uint64(1), si) >> delta
			if interval == 0 {
				continue
			}
			idx := mulMod(k, inversePow2Mod(si-delta, M), M)
			hi, ingest := bits.Mul64(interval, idx)
			if hi == 0 && ingest < Tr {
				res[k+anchor] = types.Occupant[uint64]{IngestTime: ingest + anchor, Present: true}
				break
			}
		}
	}
	return res
}

// inversePow2Mod returns the inverse of 2^e modulo an odd m.
func inversePow2Mod(e, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	half := m/2 + 1 // inverse of 2 modulo odd m
	result := uint64(1)
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = mulMod(result, half, m)
		}
		half = mulMod(half, half, m)
	}
	return result
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
