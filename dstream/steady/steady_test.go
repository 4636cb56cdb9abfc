package steady_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/dstream/steady"
	"github.com/joshuapare/dstreamkit/internal/testutil"
)

func TestAssignStorageSite_Sequence(t *testing.T) {
	tests := []struct {
		S    uint64
		want string
	}{
		{4, "0 1 3 2 None 3 None 0 None None None 3 None None None 1"},
		{8, "0 1 4 2 6 5 7 3 None 6 None 4 None 7 None 0 None None None 6"},
		{16, "0 1 5 2 8 6 10 3 12 9 13 7 14 11 15 4 None 12 None 8"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("S=%d", tt.S), func(t *testing.T) {
			testutil.AssertSequence(t, steady.New[uint64](), tt.S, tt.want)
			testutil.AssertSequence(t, steady.New[uint8](), uint8(tt.S), tt.want)
		})
	}
}

func TestAssignStorageSite_Range(t *testing.T) {
	for s := 1; s <= 10; s++ {
		S := uint32(1) << s
		t.Run(fmt.Sprintf("S=%d", S), func(t *testing.T) {
			t.Parallel()
			testutil.AssertSitesInRange(t, steady.New[uint32](), S, 0, 1<<12)
		})
	}
}

func TestAssignStorageSite_RangeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := steady.New[uint64]()
	for s := 1; s < 64; s++ {
		S := uint64(1) << s
		for k := 0; k < 200; k++ {
			T := rng.Uint64()
			if site, ok := a.AssignStorageSite(S, T); ok {
				require.Less(t, site, S, "S=%d T=%d", S, T)
			}
		}
		testutil.AssertSitesInRange(t, a, S, math.MaxUint64-64, 65)
	}
}

func TestAssignStorageSite_MaxOperands(t *testing.T) {
	// T = max(U) has a hanoi value equal to the width.
	site, ok := steady.AssignStorageSite[uint8](128, 255)
	require.True(t, ok)
	assert.Equal(t, uint8(0), site)

	site64, ok := steady.AssignStorageSite[uint64](128, 255)
	require.True(t, ok)
	assert.Equal(t, uint64(site), site64)
}

func TestHasIngestCapacity(t *testing.T) {
	for _, S := range []uint8{0, 1, 3, 5, 6, 255} {
		assert.False(t, steady.HasIngestCapacity(S, 0), "S=%d", S)
	}
	for _, T := range []uint8{0, 17, 255} {
		assert.True(t, steady.HasIngestCapacity[uint8](2, T))
		assert.True(t, steady.HasIngestCapacity[uint8](128, T))
	}
	_, bounded := steady.New[uint8]().IngestCapacity(4)
	assert.False(t, bounded)
}

func TestLookupIngestTimes_KeepsFirstArrival(t *testing.T) {
	// Arrival 0 has hanoi value 0 and is only dropped once epoch 1 begins
	// overwriting bunch 0.
	got, err := dstream.LookupIngestTimes[uint32](steady.New[uint32](), 8, 8)
	require.NoError(t, err)
	for k, o := range got {
		assert.True(t, o.Present, "site %d empty after fill", k)
	}
	assert.Equal(t, uint32(0), got[0].IngestTime)
}

func TestAssignStorageSite_Parallel(t *testing.T) {
	want := testutil.Tokens[uint32](steady.New[uint32](), 64, 2048)
	for g := 0; g < 8; g++ {
		t.Run(fmt.Sprintf("worker%d", g), func(t *testing.T) {
			t.Parallel()
			got := testutil.Tokens[uint32](steady.New[uint32](), 64, 2048)
			assert.Equal(t, want, got)
		})
	}
}

func ExampleAssignStorageSite() {
	for T := uint32(0); T < 6; T++ {
		if site, ok := steady.AssignStorageSite[uint32](4, T); ok {
			fmt.Print(site, " ")
		} else {
			fmt.Print("None ")
		}
	}
	fmt.Println()
	// Output: 0 1 3 2 None 3
}
