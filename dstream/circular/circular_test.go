package circular_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dstreamkit/dstream/circular"
	"github.com/joshuapare/dstreamkit/internal/testutil"
)

func TestAssignStorageSite_Sequence(t *testing.T) {
	testutil.AssertSequence(t, circular.New[uint32](), 4, "0 1 2 3 0 1")
	testutil.AssertSequence(t, circular.New[uint8](), 2, "0 1 0 1 0")
}

func TestAssignStorageSite_Modulo(t *testing.T) {
	for _, S := range []uint64{2, 4, 8, 64, 1 << 20, 1 << 63} {
		for _, T := range []uint64{0, 1, 7, 100, 1<<32 + 5, ^uint64(0)} {
			site, ok := circular.AssignStorageSite(S, T)
			require.True(t, ok)
			assert.Equal(t, T%S, site, "S=%d T=%d", S, T)
		}
	}
}

func TestHasIngestCapacity(t *testing.T) {
	for _, S := range []uint16{0, 1, 3, 6, 12} {
		assert.False(t, circular.HasIngestCapacity[uint16](S, 0), "S=%d", S)
	}
	for _, T := range []uint16{0, 1, 1000, ^uint16(0)} {
		assert.True(t, circular.HasIngestCapacity[uint16](16, T))
	}
}

func TestIngestCapacity(t *testing.T) {
	_, bounded := circular.New[uint8]().IngestCapacity(8)
	assert.False(t, bounded)

	n, bounded := circular.New[uint8]().IngestCapacity(7)
	assert.True(t, bounded)
	assert.Zero(t, n)
}

func TestLookupIngestTimes_MatchesReplay(t *testing.T) {
	for _, S := range []uint32{2, 4, 8, 16} {
		t.Run(fmt.Sprintf("S=%d", S), func(t *testing.T) {
			t.Parallel()
			testutil.AssertLookupMatchesReplay(t, circular.LookupIngestTimes[uint32], circular.New[uint32](), S, 5*S)
		})
	}
}

func TestLookupIngestTimes_InvalidSize(t *testing.T) {
	_, err := circular.LookupIngestTimes[uint8](6, 3)
	assert.Error(t, err)
}

func ExampleAssignStorageSite() {
	for T := uint32(0); T < 6; T++ {
		site, _ := circular.AssignStorageSite[uint32](4, T)
		fmt.Print(site, " ")
	}
	fmt.Println()
	// Output: 0 1 2 3 0 1
}
