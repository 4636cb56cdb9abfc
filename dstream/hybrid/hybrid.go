// Package hybrid interleaves several site assignment algorithms over one
// buffer.
//
// A layout is a list of fenceposts 0 = f0 < f1 < ... < fk = n with one
// algorithm between each pair. Arrival T falls in chunk T mod n, and chunks
// f(i) up to f(i+1) belong to the i-th algorithm. Each algorithm owns S/n
// contiguous sites per chunk and counts only the arrivals routed to it.
package hybrid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/dstream/steady"
	"github.com/joshuapare/dstreamkit/dstream/stretched"
	"github.com/joshuapare/dstreamkit/dstream/tilted"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

// Algo is a fencepost layout of algorithms sharing one buffer.
type Algo[U types.Uint] struct {
	parts []dstream.Algorithm[U]
	posts []int // fenceposts, one more than parts
	owner []int // chunk -> index into parts
	name  string
}

var (
	_ dstream.Algorithm[uint64] = (*Algo[uint64])(nil)
	_ dstream.Looker[uint64]    = (*Algo[uint64])(nil)
)

// New returns the hybrid of parts laid out between fenceposts, named
// "dstream.hybrid_<f0>_<part0>_<f1>_..._<fk>_algo". Fenceposts must start
// at 0, strictly increase, and number one more than parts.
func New[U types.Uint](fenceposts []int, parts ...dstream.Algorithm[U]) (*Algo[U], error) {
	if len(parts) == 0 || len(fenceposts) != len(parts)+1 {
		return nil, layoutError("%d fenceposts for %d algorithms", len(fenceposts), len(parts))
	}
	if fenceposts[0] != 0 {
		return nil, layoutError("first fencepost is %d, want 0", fenceposts[0])
	}

	var name strings.Builder
	name.WriteString("dstream.hybrid_")
	for i, p := range parts {
		if p == nil {
			return nil, layoutError("algorithm %d is nil", i)
		}
		if fenceposts[i+1] <= fenceposts[i] {
			return nil, layoutError("fenceposts %v do not strictly increase", fenceposts)
		}
		fmt.Fprintf(&name, "%d_%s_", fenceposts[i], shortName(p.Name()))
	}
	n := fenceposts[len(parts)]
	fmt.Fprintf(&name, "%d_algo", n)

	owner := make([]int, n)
	for i := range parts {
		for c := fenceposts[i]; c < fenceposts[i+1]; c++ {
			owner[c] = i
		}
	}
	return &Algo[U]{
		parts: slices.Clone(parts),
		posts: slices.Clone(fenceposts),
		owner: owner,
		name:  name.String(),
	}, nil
}

// MustNew is New for layouts known to be well formed; it panics otherwise.
func MustNew[U types.Uint](fenceposts []int, parts ...dstream.Algorithm[U]) *Algo[U] {
	a, err := New(fenceposts, parts...)
	if err != nil {
		panic(err)
	}
	return a
}

// SteadyStretched returns steady and stretched alternating arrivals.
func SteadyStretched[U types.Uint]() *Algo[U] {
	return MustNew[U]([]int{0, 1, 2}, steady.New[U](), stretched.New[U]())
}

// SteadyTilted returns steady and tilted alternating arrivals.
func SteadyTilted[U types.Uint]() *Algo[U] {
	return MustNew[U]([]int{0, 1, 2}, steady.New[U](), tilted.New[U]())
}

func layoutError(format string, args ...any) error {
	return &types.Error{
		Kind: types.ErrKindLayout,
		Msg:  "hybrid: " + fmt.Sprintf(format, args...),
	}
}

// shortName strips the "dstream." prefix and "_algo" suffix.
func shortName(name string) string {
	name = strings.TrimPrefix(name, "dstream.")
	return strings.TrimSuffix(name, "_algo")
}

// Name returns the composed dstream identifier.
func (a *Algo[U]) Name() string { return a.name }

// Parts returns the algorithms in layout order.
func (a *Algo[U]) Parts() []dstream.Algorithm[U] { return slices.Clone(a.parts) }

func (a *Algo[U]) chunks() int { return a.posts[len(a.posts)-1] }

// route returns the part serving arrival T and T's rank among the arrivals
// routed to that part.
func (a *Algo[U]) route(T U) (int, U) {
	n := U(a.chunks())
	c := T % n
	k := a.owner[int(c)]
	begin, end := U(a.posts[k]), U(a.posts[k+1])
	return k, T/n*(end-begin) + c - begin
}

// span returns the first site and number of sites part k owns in S.
func (a *Algo[U]) span(S U, k int) (offset, size U) {
	per := S / U(a.chunks())
	return per * U(a.posts[k]), per * U(a.posts[k+1]-a.posts[k])
}

// ValidSurfaceSize reports whether S splits evenly into chunks and every
// part accepts the span it is given.
func (a *Algo[U]) ValidSurfaceSize(S U) bool {
	n := uint64(a.chunks())
	if uint64(S) < n || uint64(S)%n != 0 {
		return false
	}
	for k, p := range a.parts {
		if _, size := a.span(S, k); !p.ValidSurfaceSize(size) {
			return false
		}
	}
	return true
}

// HasIngestCapacity reports whether each of the last n arrivals up to T
// still has capacity within its part.
func (a *Algo[U]) HasIngestCapacity(S, T U) bool {
	if !a.ValidSurfaceSize(S) {
		return false
	}
	for cur := bitops.FloorSubtract(T, U(a.chunks()-1)); ; cur++ {
		k, rank := a.route(cur)
		if _, size := a.span(S, k); !a.parts[k].HasIngestCapacity(size, rank) {
			return false
		}
		if cur == T {
			return true
		}
	}
}

// AssignStorageSite returns a site within the span of the part T is routed
// to, or ok = false when that part discards.
func (a *Algo[U]) AssignStorageSite(S, T U) (U, bool) {
	dstream.MustHaveCapacity[U](a, S, T)

	k, rank := a.route(T)
	offset, size := a.span(S, k)
	site, ok := a.parts[k].AssignStorageSite(size, rank)
	if !ok {
		return 0, false
	}
	return offset + site, true
}

// IngestCapacity returns the first arrival whose part has run out, or
// bounded = false when no part runs out within U.
func (a *Algo[U]) IngestCapacity(S U) (U, bool) {
	if !a.ValidSurfaceSize(S) {
		return 0, true
	}
	n := U(a.chunks())

	limit, bounded := ^U(0), false
	for k, p := range a.parts {
		_, size := a.span(S, k)
		c, ok := p.IngestCapacity(size)
		if !ok {
			continue
		}
		// Rank c of part k is arrival (c/L)*n + begin + c%L.
		begin, length := U(a.posts[k]), U(a.posts[k+1]-a.posts[k])
		v, fits := bitops.MulOverflowSafe(c/length, n)
		if fits {
			v, fits = bitops.AddOverflowSafe(v, begin+c%length)
		}
		if fits && (!bounded || v < limit) {
			limit, bounded = v, true
		}
	}
	if !bounded {
		return 0, false
	}
	return limit, true
}

// LookupIngestTimes looks up each part on its own span and maps the ranks it
// reports back to arrival times.
func (a *Algo[U]) LookupIngestTimes(S, T U) ([]types.Occupant[U], error) {
	if !a.ValidSurfaceSize(S) {
		return nil, types.PreconditionError(a.name, false, uint64(S), uint64(T))
	}
	if T > 0 && !a.HasIngestCapacity(S, T-1) {
		return nil, types.PreconditionError(a.name, true, uint64(S), uint64(T-1))
	}
	sites, err := dstream.NewSites(a.name, S)
	if err != nil {
		return nil, err
	}

	n := U(a.chunks())
	for k, p := range a.parts {
		begin, end := U(a.posts[k]), U(a.posts[k+1])
		length := end - begin
		routed := T/n*length + min(max(T%n, begin), end) - begin

		offset, size := a.span(S, k)
		sub, err := dstream.LookupIngestTimes(p, size, routed)
		if err != nil {
			return nil, fmt.Errorf("%s: part %d: %w", a.name, k, err)
		}
		for i, o := range sub {
			if !o.Present {
				continue
			}
			o.IngestTime = o.IngestTime/length*n + begin + o.IngestTime%length
			sites[uint64(offset)+uint64(i)] = o
		}
	}
	return sites, nil
}

// ClosedForm reports whether every part looks up without replay.
func (a *Algo[U]) ClosedForm() bool {
	for _, p := range a.parts {
		if !dstream.HasClosedForm(p) {
			return false
		}
	}
	return true
}
