package types

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindSurfaceSize      ErrKind = iota // S is not a buffer size the algorithm accepts
	ErrKindHorizon                         // T is at or past a bounded algorithm's horizon
	ErrKindOverflow                        // a value does not fit the requested integer width
	ErrKindUnknownAlgorithm                // no algorithm registered under the given name
	ErrKindWidthMismatch                   // two integer widths disagreed on the same (S,T)
	ErrKindLayout                          // a hybrid layout is malformed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindSurfaceSize:
		return "surface-size"
	case ErrKindHorizon:
		return "horizon"
	case ErrKindOverflow:
		return "overflow"
	case ErrKindUnknownAlgorithm:
		return "unknown-algorithm"
	case ErrKindWidthMismatch:
		return "width-mismatch"
	case ErrKindLayout:
		return "layout"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so detailed errors built at the
// call site still satisfy errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrInvalidSurfaceSize indicates S is not accepted (e.g. not a power of two > 1).
	ErrInvalidSurfaceSize = &Error{Kind: ErrKindSurfaceSize, Msg: "invalid surface size"}
	// ErrHorizonExceeded indicates T is at or past the algorithm's ingest capacity.
	ErrHorizonExceeded = &Error{Kind: ErrKindHorizon, Msg: "ingest horizon exceeded"}
	// ErrOverflow indicates an operand does not fit the requested width.
	ErrOverflow = &Error{Kind: ErrKindOverflow, Msg: "value overflows integer width"}
	// ErrUnknownAlgorithm indicates a name lookup failed.
	ErrUnknownAlgorithm = &Error{Kind: ErrKindUnknownAlgorithm, Msg: "unknown algorithm"}
	// ErrWidthMismatch indicates a cross-width consistency failure.
	ErrWidthMismatch = &Error{Kind: ErrKindWidthMismatch, Msg: "integer widths disagree"}
	// ErrInvalidLayout indicates hybrid fenceposts and algorithms do not line up.
	ErrInvalidLayout = &Error{Kind: ErrKindLayout, Msg: "invalid hybrid layout"}
)

// PreconditionError builds the error an algorithm raises when asked to assign
// a site without ingest capacity. surfaceOK selects between the two kinds.
func PreconditionError(algo string, surfaceOK bool, S, T uint64) *Error {
	if !surfaceOK {
		return &Error{
			Kind: ErrKindSurfaceSize,
			Msg:  fmt.Sprintf("%s: invalid surface size S=%d", algo, S),
		}
	}
	return &Error{
		Kind: ErrKindHorizon,
		Msg:  fmt.Sprintf("%s: no ingest capacity at T=%d for S=%d", algo, T, S),
	}
}

// -----------------------------------------------------------------------------
// Operands & Results
// -----------------------------------------------------------------------------

// Uint is the set of unsigned integer types an algorithm can be instantiated
// over. Results for a given (S,T) are identical across every width able to
// represent both operands.
type Uint interface {
	constraints.Unsigned
}

// Outcome distinguishes the results of a checked site assignment.
type Outcome uint8

const (
	OutcomeDiscarded Outcome = iota // capacity held; arrival dropped, buffer unchanged
	OutcomeAssigned                 // capacity held; arrival overwrites Decision.Site
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeAssigned:
		return "assigned"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Decision is the result of a checked site assignment. Site is meaningful
// only when Outcome is OutcomeAssigned.
type Decision[U Uint] struct {
	Outcome Outcome
	Site    U
}

// Assigned reports the site and whether one was chosen.
func (d Decision[U]) Assigned() (U, bool) {
	return d.Site, d.Outcome == OutcomeAssigned
}

// Occupant describes what a buffer site holds at some logical time.
// Present is false for sites that were never written.
type Occupant[U Uint] struct {
	IngestTime U
	Present    bool
}
