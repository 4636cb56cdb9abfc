package hybrid_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/dstream/circular"
	"github.com/joshuapare/dstreamkit/dstream/hybrid"
	"github.com/joshuapare/dstreamkit/dstream/steady"
	"github.com/joshuapare/dstreamkit/dstream/sticky"
	"github.com/joshuapare/dstreamkit/dstream/stretched"
	"github.com/joshuapare/dstreamkit/dstream/tilted"
	"github.com/joshuapare/dstreamkit/internal/testutil"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

func TestName(t *testing.T) {
	assert.Equal(t, "dstream.hybrid_0_steady_1_tilted_2_algo", hybrid.SteadyTilted[uint8]().Name())
	assert.Equal(t, "dstream.hybrid_0_steady_1_stretched_2_algo", hybrid.SteadyStretched[uint8]().Name())
	assert.Equal(t,
		"dstream.hybrid_0_steady_1_tilted_2_algo.assign_storage_site",
		dstream.OperationName[uint64](hybrid.SteadyTilted[uint64]()))
	assert.Equal(t, "dstream.hybrid_0_circular_1_sticky_2_algo",
		hybrid.MustNew[uint16]([]int{0, 1, 2}, circular.New[uint16](), sticky.New[uint16]()).Name())
	assert.Equal(t, "dstream.hybrid_0_stretched_1_steady_3_algo",
		hybrid.MustNew[uint16]([]int{0, 1, 3}, stretched.New[uint16](), steady.New[uint16]()).Name())
}

func TestAssignStorageSite_Sequence(t *testing.T) {
	testutil.AssertSequence(t, hybrid.SteadyTilted[uint32](), 8,
		"0 4 1 5 3 7 2 6 None 4 3 5 None 4 0 7")
	testutil.AssertSequence(t, hybrid.SteadyStretched[uint32](), 8,
		"0 4 1 5 3 7 2 6 None None 3 None None None 0 7")
	testutil.AssertSequence(t, hybrid.SteadyTilted[uint8](), 16,
		"0 8 1 9 4 13 2 10 6 12 5 14 7 15 3 11 None 8 6 9 None 13 4 15")
}

func TestAssignStorageSite_Halves(t *testing.T) {
	algos := []dstream.Algorithm[uint32]{
		hybrid.SteadyTilted[uint32](),
		hybrid.SteadyStretched[uint32](),
		hybrid.MustNew[uint32]([]int{0, 1, 2}, circular.New[uint32](), steady.New[uint32]()),
	}
	for _, a := range algos {
		for _, S := range []uint32{4, 8, 16, 32} {
			t.Run(fmt.Sprintf("%s/S=%d", a.Name(), S), func(t *testing.T) {
				half := S / 2
				for T := uint32(0); T < 4096; T++ {
					if !a.HasIngestCapacity(S, T) {
						continue
					}
					site, ok := a.AssignStorageSite(S, T)
					if !ok {
						continue
					}
					if T%2 == 0 {
						require.Less(t, site, half, "T=%d", T)
					} else {
						require.GreaterOrEqual(t, site, half, "T=%d", T)
						require.Less(t, site, S, "T=%d", T)
					}
				}
			})
		}
	}
}

func TestHasIngestCapacity(t *testing.T) {
	a := hybrid.SteadyTilted[uint16]()
	assert.False(t, a.HasIngestCapacity(2, 0), "half of 2 is not a valid steady size")
	assert.False(t, a.HasIngestCapacity(12, 0))

	// The tilted half on 4 sites takes 15 arrivals, so odd T stops at 31.
	assert.True(t, a.HasIngestCapacity(8, 30))
	assert.False(t, a.HasIngestCapacity(8, 31))
	assert.False(t, a.HasIngestCapacity(8, 32))
}

func TestIngestCapacity(t *testing.T) {
	n, bounded := hybrid.SteadyTilted[uint16]().IngestCapacity(8)
	require.True(t, bounded)
	assert.Equal(t, uint16(31), n)
	testutil.AssertHorizon(t, hybrid.SteadyTilted[uint16](), 8)
	testutil.AssertHorizon(t, hybrid.SteadyStretched[uint16](), 16)

	// 2^8 - 1 arrivals for the odd half overflow u8 once doubled.
	_, bounded = hybrid.SteadyTilted[uint8]().IngestCapacity(16)
	assert.False(t, bounded)

	_, bounded = hybrid.MustNew[uint8]([]int{0, 1, 2}, steady.New[uint8](), circular.New[uint8]()).IngestCapacity(8)
	assert.False(t, bounded)

	n8, bounded := hybrid.SteadyStretched[uint8]().IngestCapacity(6)
	assert.True(t, bounded)
	assert.Zero(t, n8)
}

func TestAssignStorageSite_Panics(t *testing.T) {
	a := hybrid.SteadyStretched[uint32]()
	assert.Panics(t, func() { a.AssignStorageSite(8, 31) })
	assert.Panics(t, func() { a.AssignStorageSite(6, 0) })
}

func TestNew_Layout(t *testing.T) {
	tests := []struct {
		name       string
		fenceposts []int
		parts      int
	}{
		{"no parts", []int{0}, 0},
		{"missing fencepost", []int{0, 1}, 2},
		{"nonzero start", []int{1, 2, 3}, 2},
		{"not increasing", []int{0, 2, 2}, 2},
		{"decreasing", []int{0, 3, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := make([]dstream.Algorithm[uint32], tt.parts)
			for i := range parts {
				parts[i] = steady.New[uint32]()
			}
			_, err := hybrid.New(tt.fenceposts, parts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidLayout))
		})
	}

	assert.Panics(t, func() { hybrid.MustNew[uint32]([]int{0, 1}) })
}

// Chunk 0 of every three arrivals goes to stretched on S/3 sites, chunks 1
// and 2 to steady on the remaining 2S/3.
func threeChunk() *hybrid.Algo[uint32] {
	return hybrid.MustNew[uint32]([]int{0, 1, 3}, stretched.New[uint32](), steady.New[uint32]())
}

func TestThreeChunk_ValidSurfaceSize(t *testing.T) {
	a := threeChunk()
	for _, S := range []uint32{6, 12, 24, 48} {
		assert.True(t, a.ValidSurfaceSize(S), "S=%d", S)
	}
	for _, S := range []uint32{0, 2, 3, 4, 8, 9, 18} {
		assert.False(t, a.ValidSurfaceSize(S), "S=%d", S)
	}
}

func TestThreeChunk_AssignStorageSite(t *testing.T) {
	a := threeChunk()
	const S = 24
	third := uint32(S / 3)
	for T := uint32(0); a.HasIngestCapacity(S, T); T++ {
		got, gotOK := a.AssignStorageSite(S, T)

		var want uint32
		var wantOK bool
		if T%3 == 0 {
			want, wantOK = stretched.AssignStorageSite(third, T/3)
		} else {
			want, wantOK = steady.AssignStorageSite(S-third, T/3*2+T%3-1)
			want += third
		}
		require.Equal(t, wantOK, gotOK, "T=%d", T)
		if wantOK {
			require.Equal(t, want, got, "T=%d", T)
		}
	}
}

func TestThreeChunk_IngestCapacity(t *testing.T) {
	// Stretched on 4 sites takes 15 arrivals; its 16th would be arrival 45.
	n, bounded := threeChunk().IngestCapacity(12)
	require.True(t, bounded)
	assert.Equal(t, uint32(45), n)
	testutil.AssertHorizon[uint32](t, threeChunk(), 12)
	testutil.AssertHorizon[uint32](t, threeChunk(), 24)

	// Tilted on 2 sites takes 3 arrivals, so chunk 1 stops at 3*4+1.
	// Stretched on 4 sites gives out at rank 15, arrival 7*4+2+1.
	four := hybrid.MustNew[uint32]([]int{0, 1, 2, 4}, steady.New[uint32](), tilted.New[uint32](), stretched.New[uint32]())
	n, bounded = four.IngestCapacity(8)
	require.True(t, bounded)
	assert.Equal(t, uint32(13), n)
	testutil.AssertHorizon[uint32](t, four, 8)
}

func TestLookupIngestTimes_MatchesReplay(t *testing.T) {
	three := threeChunk()
	testutil.AssertLookupMatchesReplay(t, three.LookupIngestTimes, three, 12, 45)
	testutil.AssertLookupMatchesReplay(t, three.LookupIngestTimes, three, 24, 765)

	four := hybrid.MustNew[uint32]([]int{0, 1, 2, 4}, steady.New[uint32](), tilted.New[uint32](), stretched.New[uint32]())
	testutil.AssertLookupMatchesReplay(t, four.LookupIngestTimes, four, 32, 1021)

	for _, a := range []*hybrid.Algo[uint32]{hybrid.SteadyTilted[uint32](), hybrid.SteadyStretched[uint32]()} {
		testutil.AssertLookupMatchesReplay(t, a.LookupIngestTimes, a, 8, 31)
		testutil.AssertLookupMatchesReplay(t, a.LookupIngestTimes, a, 32, 1500)
	}
}

func TestLookupIngestTimes_PastHorizon(t *testing.T) {
	_, err := threeChunk().LookupIngestTimes(12, 46)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrHorizonExceeded))

	_, err = threeChunk().LookupIngestTimes(8, 0)
	assert.True(t, errors.Is(err, types.ErrInvalidSurfaceSize))
}

// replayOnly hides a part's closed-form lookup.
type replayOnly struct{ dstream.Algorithm[uint32] }

func TestClosedForm(t *testing.T) {
	assert.True(t, dstream.HasClosedForm[uint32](threeChunk()))
	assert.True(t, dstream.HasClosedForm[uint32](hybrid.SteadyTilted[uint32]()))

	a := hybrid.MustNew[uint32]([]int{0, 1, 2}, steady.New[uint32](), replayOnly{circular.New[uint32]()})
	assert.False(t, dstream.HasClosedForm[uint32](a))
	testutil.AssertLookupMatchesReplay(t, a.LookupIngestTimes, a, 8, 100)
}

func ExampleNew() {
	a, err := hybrid.New[uint32]([]int{0, 1, 3}, stretched.New[uint32](), steady.New[uint32]())
	if err != nil {
		panic(err)
	}
	fmt.Println(a.Name())
	for T := uint32(0); T < 6; T++ {
		site, _ := a.AssignStorageSite(12, T)
		fmt.Print(site, " ")
	}
	fmt.Println()
	// Output:
	// dstream.hybrid_0_stretched_1_steady_3_algo
	// 0 4 5 1 8 6
}
