package stretched_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/dstream/stretched"
	"github.com/joshuapare/dstreamkit/internal/testutil"
)

func TestLookupIngestTimes_MatchesReplay(t *testing.T) {
	tests := []struct {
		S    uint32
		maxT uint32
	}{
		{2, 3},
		{4, 15},
		{8, 255},
		{16, 3000},
		{32, 2000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("S=%d", tt.S), func(t *testing.T) {
			testutil.AssertLookupMatchesReplay(t, stretched.LookupIngestTimes[uint32], stretched.New[uint32](), tt.S, tt.maxT)
		})
	}
}

func TestLookupIngestTimes_Narrow(t *testing.T) {
	testutil.AssertLookupMatchesReplay(t, stretched.LookupIngestTimes[uint8], stretched.New[uint8](), 8, 255)
	testutil.AssertLookupMatchesReplay(t, stretched.LookupIngestTimes[uint8], stretched.New[uint8](), 64, 255)
}

func TestLookupIngestTimes_Steps(t *testing.T) {
	// Spans the epoch boundaries at 2^40 and 2^62.
	testutil.AssertLookupSteps(t, stretched.LookupIngestTimes[uint64], stretched.New[uint64](), 64, 1<<40-200, 400)
	testutil.AssertLookupSteps(t, stretched.LookupIngestTimes[uint64], stretched.New[uint64](), 16, 1<<15-100, 200)
	testutil.AssertLookupSteps(t, stretched.LookupIngestTimes[uint64], stretched.New[uint64](), 128, 1<<62-50, 100)
}

func TestLookupIngestTimes_Dispatch(t *testing.T) {
	a := stretched.New[uint64]()
	require.True(t, dstream.HasClosedForm[uint64](a))

	got, err := dstream.LookupIngestTimes[uint64](a, 8, 200)
	require.NoError(t, err)
	want, err := stretched.LookupIngestTimes[uint64](8, 200)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLookupIngestTimes_PastHorizon(t *testing.T) {
	_, err := stretched.LookupIngestTimes[uint16](4, 15)
	require.NoError(t, err)

	_, err = stretched.LookupIngestTimes[uint16](4, 16)
	require.Error(t, err)

	_, err = stretched.LookupIngestTimes[uint16](6, 10)
	require.Error(t, err)
}
