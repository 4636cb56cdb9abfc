package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrKind_String(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrKind
		expected string
	}{
		{name: "surface size", kind: ErrKindSurfaceSize, expected: "surface-size"},
		{name: "horizon", kind: ErrKindHorizon, expected: "horizon"},
		{name: "overflow", kind: ErrKindOverflow, expected: "overflow"},
		{name: "unknown algorithm", kind: ErrKindUnknownAlgorithm, expected: "unknown-algorithm"},
		{name: "width mismatch", kind: ErrKindWidthMismatch, expected: "width-mismatch"},
		{name: "layout", kind: ErrKindLayout, expected: "layout"},
		{name: "out of range", kind: ErrKind(42), expected: "ErrKind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := PreconditionError("dstream.steady_algo", false, 3, 0)
	require.ErrorIs(t, err, ErrInvalidSurfaceSize)
	require.NotErrorIs(t, err, ErrHorizonExceeded)
	require.Contains(t, err.Error(), "S=3")

	err = PreconditionError("dstream.stretched_algo", true, 4, 15)
	require.ErrorIs(t, err, ErrHorizonExceeded)
	require.Contains(t, err.Error(), "T=15")

	wrapped := fmt.Errorf("run: %w", err)
	require.ErrorIs(t, wrapped, ErrHorizonExceeded)

	var typed *Error
	require.True(t, errors.As(wrapped, &typed))
	require.Equal(t, ErrKindHorizon, typed.Kind)
}

func TestError_UnwrapAndNil(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: ErrKindOverflow, Msg: "narrow", Err: cause}
	require.Equal(t, "narrow: boom", err.Error())
	require.ErrorIs(t, err, cause)

	var nilErr *Error
	require.Equal(t, "<nil>", nilErr.Error())
}

func TestDecision_Assigned(t *testing.T) {
	site, ok := Decision[uint8]{Outcome: OutcomeAssigned, Site: 3}.Assigned()
	require.True(t, ok)
	require.Equal(t, uint8(3), site)

	_, ok = Decision[uint64]{Outcome: OutcomeDiscarded}.Assigned()
	require.False(t, ok)

	require.Equal(t, "assigned", OutcomeAssigned.String())
	require.Equal(t, "discarded", OutcomeDiscarded.String())
	require.Equal(t, "Outcome(9)", Outcome(9).String())
}
