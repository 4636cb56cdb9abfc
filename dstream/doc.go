// Package dstream defines the contract shared by the deterministic site
// assignment algorithms in its subpackages.
//
// # Overview
//
// A buffer holds S sites. Arrivals are numbered by a logical time T starting
// at 0. For each arrival an algorithm decides whether it can still ingest at
// T and, if so, which site the arrival overwrites (or that it is discarded).
// Sites not chosen keep their prior contents. Decisions are pure functions
// of (S,T): no state is carried between calls, and T need not be queried in
// order.
//
// # Variants
//
//   - circular: ring buffer, site = T mod S
//   - sticky: first S arrivals fill the buffer and never move
//   - compressing: one anchor site plus a geometrically widening sample
//   - steady: even coverage of all history, unbounded duration
//   - stretched: even coverage up to horizon 2^S - 1, favouring early history
//   - tilted: coverage weighted toward recent history up to horizon 2^S - 1
//   - hybrid: two variants sharing the buffer, alternating by parity of T
//
// # Integer Width
//
// Every variant is generic over an unsigned width (uint8 through uint64).
// For any (S,T) representable in two widths, both give identical answers.
//
// # Checked and Unchecked Calls
//
// Algorithm.AssignStorageSite panics on a precondition violation. Assign
// returns a types.Decision and a typed error instead:
//
//	d, err := dstream.Assign[uint64](steady.New[uint64](), 16, 100)
//	if errors.Is(err, types.ErrHorizonExceeded) {
//	    // buffer is permanently full
//	}
package dstream
