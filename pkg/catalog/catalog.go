// Package catalog maps dstream operation names to their implementations at
// every supported integer width.
//
// Names take the form "dstream.<algo>.assign_storage_site", for example
// "dstream.steady_algo.assign_storage_site". Lookup also accepts the bare
// algorithm name ("dstream.steady_algo").
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/dstream/circular"
	"github.com/joshuapare/dstreamkit/dstream/compressing"
	"github.com/joshuapare/dstreamkit/dstream/hybrid"
	"github.com/joshuapare/dstreamkit/dstream/steady"
	"github.com/joshuapare/dstreamkit/dstream/sticky"
	"github.com/joshuapare/dstreamkit/dstream/stretched"
	"github.com/joshuapare/dstreamkit/dstream/tilted"
	"github.com/joshuapare/dstreamkit/internal/bitops"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

const (
	operationSuffix = ".assign_storage_site"
	hybridPrefix    = "dstream.hybrid_"

	// maxChunks bounds the last fencepost of a hybrid layout built by name.
	maxChunks = 1 << 12
)

// Entry is one algorithm instantiated at each width.
type Entry struct {
	Name string // operation name, "dstream.<algo>.assign_storage_site"

	U8  dstream.Algorithm[uint8]
	U16 dstream.Algorithm[uint16]
	U32 dstream.Algorithm[uint32]
	U64 dstream.Algorithm[uint64]
}

// Result is the outcome of one (S, T) query in the line protocol.
type Result struct {
	Capacity bool   // false: no decision exists for (S, T)
	Assigned bool   // false with Capacity: the arrival is discarded
	Site     uint64 // valid when Assigned
}

// String renders r as a line-protocol token: "" without capacity, "None"
// for a discard, otherwise the decimal site.
func (r Result) String() string {
	switch {
	case !r.Capacity:
		return ""
	case !r.Assigned:
		return "None"
	default:
		return fmt.Sprintf("%d", r.Site)
	}
}

// Widths lists the supported integer widths in bits, narrowest first.
var Widths = []int{8, 16, 32, 64}

var registry = map[string]Entry{}

func register(e Entry) {
	if _, dup := registry[e.Name]; dup {
		panic("catalog: duplicate registration of " + e.Name)
	}
	registry[e.Name] = e
}

func init() {
	register(entryOf(circular.New[uint8](), circular.New[uint16](), circular.New[uint32](), circular.New[uint64]()))
	register(entryOf(sticky.New[uint8](), sticky.New[uint16](), sticky.New[uint32](), sticky.New[uint64]()))
	register(entryOf(compressing.New[uint8](), compressing.New[uint16](), compressing.New[uint32](), compressing.New[uint64]()))
	register(entryOf(steady.New[uint8](), steady.New[uint16](), steady.New[uint32](), steady.New[uint64]()))
	register(entryOf(stretched.New[uint8](), stretched.New[uint16](), stretched.New[uint32](), stretched.New[uint64]()))
	register(entryOf(tilted.New[uint8](), tilted.New[uint16](), tilted.New[uint32](), tilted.New[uint64]()))
	register(entryOf(
		hybrid.SteadyStretched[uint8](), hybrid.SteadyStretched[uint16](),
		hybrid.SteadyStretched[uint32](), hybrid.SteadyStretched[uint64](),
	))
	register(entryOf(
		hybrid.SteadyTilted[uint8](), hybrid.SteadyTilted[uint16](),
		hybrid.SteadyTilted[uint32](), hybrid.SteadyTilted[uint64](),
	))
}

func entryOf(
	a8 dstream.Algorithm[uint8],
	a16 dstream.Algorithm[uint16],
	a32 dstream.Algorithm[uint32],
	a64 dstream.Algorithm[uint64],
) Entry {
	return Entry{Name: dstream.OperationName(a64), U8: a8, U16: a16, U32: a32, U64: a64}
}

// Lookup returns the entry registered under name. Both the operation name
// and the bare algorithm name are accepted. Hybrid names not registered,
// such as "dstream.hybrid_0_stretched_1_steady_3_algo", are built from the
// registered algorithms they name.
func Lookup(name string) (Entry, error) {
	key := strings.TrimSpace(name)
	if !strings.HasSuffix(key, operationSuffix) {
		key += operationSuffix
	}
	if e, ok := registry[key]; ok {
		return e, nil
	}
	if e, ok := hybridEntry(key); ok {
		return e, nil
	}
	return Entry{}, &types.Error{
		Kind: types.ErrKindUnknownAlgorithm,
		Msg:  fmt.Sprintf("unknown algorithm %q", name),
	}
}

// hybridEntry parses a hybrid operation name into fenceposts and base
// algorithms and instantiates the layout at every width.
func hybridEntry(key string) (Entry, bool) {
	body, ok := strings.CutPrefix(key, hybridPrefix)
	if !ok {
		return Entry{}, false
	}
	body, ok = strings.CutSuffix(body, "_algo"+operationSuffix)
	if !ok {
		return Entry{}, false
	}

	var (
		posts []int
		bases []Entry
		words []string
	)
	for _, tok := range strings.Split(body, "_") {
		n, err := strconv.Atoi(tok)
		if err != nil {
			words = append(words, tok)
			continue
		}
		if n > maxChunks {
			return Entry{}, false
		}
		if len(words) > 0 {
			base, ok := registry["dstream."+strings.Join(words, "_")+"_algo"+operationSuffix]
			if !ok {
				return Entry{}, false
			}
			bases = append(bases, base)
			words = words[:0]
		}
		posts = append(posts, n)
	}
	if len(words) > 0 {
		return Entry{}, false
	}

	a64, err := hybrid.New(posts, partsOf(bases, func(e Entry) dstream.Algorithm[uint64] { return e.U64 })...)
	if err != nil {
		return Entry{}, false
	}
	return entryOf(
		hybrid.MustNew(posts, partsOf(bases, func(e Entry) dstream.Algorithm[uint8] { return e.U8 })...),
		hybrid.MustNew(posts, partsOf(bases, func(e Entry) dstream.Algorithm[uint16] { return e.U16 })...),
		hybrid.MustNew(posts, partsOf(bases, func(e Entry) dstream.Algorithm[uint32] { return e.U32 })...),
		a64,
	), true
}

func partsOf[U types.Uint](bases []Entry, at func(Entry) dstream.Algorithm[U]) []dstream.Algorithm[U] {
	parts := make([]dstream.Algorithm[U], len(bases))
	for i, e := range bases {
		parts[i] = at(e)
	}
	return parts
}

// Names returns every registered operation name in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval answers a line-protocol query at 64 bits.
func (e Entry) Eval(S, T uint64) Result {
	return eval(e.U64, S, T)
}

// EvalWidth answers a query at the given width. It reports ok = false when
// S or T is not representable at that width.
func (e Entry) EvalWidth(width int, S, T uint64) (Result, bool) {
	switch width {
	case 8:
		return evalFit(e.U8, S, T)
	case 16:
		return evalFit(e.U16, S, T)
	case 32:
		return evalFit(e.U32, S, T)
	case 64:
		return evalFit(e.U64, S, T)
	default:
		return Result{}, false
	}
}

// CheckWidths evaluates (S, T) at every width that can represent both and
// returns the 64-bit result. Any disagreement is reported as an error of
// kind types.ErrKindWidthMismatch.
func (e Entry) CheckWidths(S, T uint64) (Result, error) {
	want := e.Eval(S, T)
	for _, width := range Widths {
		got, ok := e.EvalWidth(width, S, T)
		if !ok || got == want {
			continue
		}
		return want, &types.Error{
			Kind: types.ErrKindWidthMismatch,
			Msg: fmt.Sprintf("%s: S=%d T=%d gives %q at %d bits but %q at 64 bits",
				e.Name, S, T, got.String(), width, want.String()),
		}
	}
	return want, nil
}

// HasClosedForm reports whether LookupIngestTimes avoids replaying arrivals.
func (e Entry) HasClosedForm() bool { return dstream.HasClosedForm(e.U64) }

// LookupIngestTimes reports the arrival held at each site after arrivals
// 0..T-1, at 64 bits. It uses the algorithm's closed form when one exists
// and replays the assignments otherwise.
func (e Entry) LookupIngestTimes(S, T uint64) ([]types.Occupant[uint64], error) {
	return dstream.LookupIngestTimes(e.U64, S, T)
}

func evalFit[U types.Uint](a dstream.Algorithm[U], S, T uint64) (Result, bool) {
	if !bitops.CanFit[U](S) || !bitops.CanFit[U](T) {
		return Result{}, false
	}
	return eval(a, S, T), true
}

func eval[U types.Uint](a dstream.Algorithm[U], S, T uint64) Result {
	s, t := U(S), U(T)
	if !a.HasIngestCapacity(s, t) {
		return Result{}
	}
	site, ok := a.AssignStorageSite(s, t)
	if !ok {
		return Result{Capacity: true}
	}
	return Result{Capacity: true, Assigned: true, Site: uint64(site)}
}
