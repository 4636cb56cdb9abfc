// Package testutil holds assertions shared by the dstream algorithm tests.
//
// Arrival outcomes are rendered as tokens close to the line protocol: the
// decimal site, "None" for a discard, and "-" when no capacity exists.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// NoCapacity is the token for an arrival without ingest capacity.
const NoCapacity = "-"

// Token renders the outcome for arrival T on S sites.
func Token[U types.Uint](a dstream.Algorithm[U], S, T U) string {
	if !a.HasIngestCapacity(S, T) {
		return NoCapacity
	}
	site, ok := a.AssignStorageSite(S, T)
	if !ok {
		return "None"
	}
	return fmt.Sprintf("%d", uint64(site))
}

// Tokens renders the outcomes of arrivals 0..n-1.
func Tokens[U types.Uint](a dstream.Algorithm[U], S U, n int) []string {
	out := make([]string, n)
	for T := 0; T < n; T++ {
		out[T] = Token(a, S, U(T))
	}
	return out
}

// AssertSequence checks arrivals 0.. against a space separated list of
// tokens.
//
// Example:
//
//	testutil.AssertSequence(t, steady.New[uint32](), 4, "0 1 3 2 None 3")
func AssertSequence[U types.Uint](t *testing.T, a dstream.Algorithm[U], S U, want string) {
	t.Helper()
	tokens := strings.Fields(want)
	got := Tokens(a, S, len(tokens))
	if diff := cmp.Diff(tokens, got); diff != "" {
		t.Errorf("%s S=%d sequence mismatch (-want +got):\n%s", a.Name(), uint64(S), diff)
	}
}

// AssertSitesInRange checks that every arrival T in [from, from+n) with
// capacity is either discarded or assigned a site below S.
func AssertSitesInRange[U types.Uint](t *testing.T, a dstream.Algorithm[U], S, from U, n int) {
	t.Helper()
	for k := 0; k < n; k++ {
		T := from + U(k)
		if T < from {
			return // wrapped past max(U)
		}
		if !a.HasIngestCapacity(S, T) {
			continue
		}
		if site, ok := a.AssignStorageSite(S, T); ok && site >= S {
			t.Errorf("%s S=%d T=%d: site %d out of range", a.Name(), uint64(S), uint64(T), uint64(site))
			return
		}
	}
}

// AssertHorizon checks that capacity holds for every T below the horizon
// reported by IngestCapacity and fails at it.
func AssertHorizon[U types.Uint](t *testing.T, a dstream.Algorithm[U], S U) {
	t.Helper()
	n, bounded := a.IngestCapacity(S)
	if !bounded {
		t.Errorf("%s S=%d: expected bounded capacity", a.Name(), uint64(S))
		return
	}
	for T := U(0); T < n; T++ {
		if !a.HasIngestCapacity(S, T) {
			t.Errorf("%s S=%d: lost capacity at T=%d before horizon %d", a.Name(), uint64(S), uint64(T), uint64(n))
			return
		}
	}
	if a.HasIngestCapacity(S, n) {
		t.Errorf("%s S=%d: capacity at horizon T=%d", a.Name(), uint64(S), uint64(n))
	}
}

// LookupFunc is a closed-form occupancy lookup such as
// circular.LookupIngestTimes.
type LookupFunc[U types.Uint] func(S, T U) ([]types.Occupant[U], error)

// AssertLookupMatchesReplay compares a closed-form lookup against
// dstream.ReplayIngestTimes for every T in [0, maxT].
func AssertLookupMatchesReplay[U types.Uint](t *testing.T, lookup LookupFunc[U], a dstream.Algorithm[U], S, maxT U) {
	t.Helper()
	for T := U(0); ; T++ {
		want, err := dstream.ReplayIngestTimes(a, S, T)
		if err != nil {
			t.Fatalf("replay S=%d T=%d: %v", uint64(S), uint64(T), err)
		}
		got, err := lookup(S, T)
		if err != nil {
			t.Fatalf("lookup S=%d T=%d: %v", uint64(S), uint64(T), err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s S=%d T=%d lookup mismatch (-replay +closed form):\n%s", a.Name(), uint64(S), uint64(T), diff)
			return
		}
		if T == maxT {
			return
		}
	}
}

// AssertLookupSteps checks a closed-form lookup far past where replay is
// practical: for each T in [from, from+n), lookup(T+1) must equal lookup(T)
// with arrival T placed by a.AssignStorageSite.
func AssertLookupSteps[U types.Uint](t *testing.T, lookup LookupFunc[U], a dstream.Algorithm[U], S, from, n U) {
	t.Helper()
	want, err := lookup(S, from)
	if err != nil {
		t.Fatalf("lookup S=%d T=%d: %v", uint64(S), uint64(from), err)
	}
	for T := from; T != from+n; T++ {
		if site, ok := a.AssignStorageSite(S, T); ok {
			want[uint64(site)] = types.Occupant[U]{IngestTime: T, Present: true}
		}
		got, err := lookup(S, T+1)
		if err != nil {
			t.Fatalf("lookup S=%d T=%d: %v", uint64(S), uint64(T+1), err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s S=%d T=%d lookup mismatch (-stepped +closed form):\n%s", a.Name(), uint64(S), uint64(T+1), diff)
			return
		}
	}
}
