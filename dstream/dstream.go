package dstream

import (
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Algorithm is the two-operation contract every site assignment variant
// satisfies, instantiated for one unsigned width U.
//
// Implementations are stateless: every method is a pure function of its
// arguments and is safe for concurrent use.
type Algorithm[U types.Uint] interface {
	// Name returns the dstream identifier, e.g. "dstream.steady_algo".
	Name() string

	// ValidSurfaceSize reports whether S is a buffer size the algorithm accepts.
	ValidSurfaceSize(S U) bool

	// HasIngestCapacity reports whether a decision exists for arrival T on a
	// buffer of S sites. Bounded algorithms also enforce their horizon here.
	HasIngestCapacity(S, T U) bool

	// AssignStorageSite returns the site arrival T overwrites, or ok = false
	// to discard it. Calling it without ingest capacity panics with a
	// *types.Error; use Assign for a checked call.
	AssignStorageSite(S, T U) (site U, ok bool)

	// IngestCapacity returns how many arrivals the algorithm can take on a
	// buffer of S sites. bounded is false when capacity exceeds what U can
	// count. An invalid S reports (0, true).
	IngestCapacity(S U) (n U, bounded bool)
}

// Assign performs a checked site assignment. Precondition failures are
// returned as typed errors instead of panicking:
//
//   - types.ErrInvalidSurfaceSize when S is not accepted
//   - types.ErrHorizonExceeded when T is past the ingest horizon
func Assign[U types.Uint](a Algorithm[U], S, T U) (types.Decision[U], error) {
	if !a.HasIngestCapacity(S, T) {
		return types.Decision[U]{}, types.PreconditionError(
			a.Name(), a.ValidSurfaceSize(S), uint64(S), uint64(T),
		)
	}
	site, ok := a.AssignStorageSite(S, T)
	if !ok {
		return types.Decision[U]{Outcome: types.OutcomeDiscarded}, nil
	}
	return types.Decision[U]{Outcome: types.OutcomeAssigned, Site: site}, nil
}

// MustHaveCapacity panics with the precondition error for a when T has no
// ingest capacity on S. Algorithm implementations call it first thing in
// AssignStorageSite.
func MustHaveCapacity[U types.Uint](a Algorithm[U], S, T U) {
	if a.HasIngestCapacity(S, T) {
		return
	}
	panic(types.PreconditionError(a.Name(), a.ValidSurfaceSize(S), uint64(S), uint64(T)))
}

// OperationName returns the protocol name of a's site assignment operation,
// e.g. "dstream.steady_algo.assign_storage_site".
func OperationName[U types.Uint](a Algorithm[U]) string {
	return a.Name() + ".assign_storage_site"
}
