package catalog

import (
	"strings"
	"testing"

	"github.com/joshuapare/dstreamkit/dstream"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

var sinkSite uint64

// BenchmarkAssign measures one capacity check plus site assignment per
// arrival, for every algorithm at every width. Sub-benchmark names follow
// BenchmarkAssign/<algo>/u<width>, which scripts/benchmark_parser.go groups.
func BenchmarkAssign(b *testing.B) {
	for _, name := range Names() {
		e, err := Lookup(name)
		if err != nil {
			b.Fatal(err)
		}
		short := strings.TrimSuffix(strings.TrimPrefix(name, "dstream."), operationSuffix)

		b.Run(short+"/u8", func(b *testing.B) { benchAssign(b, e.U8) })
		b.Run(short+"/u16", func(b *testing.B) { benchAssign(b, e.U16) })
		b.Run(short+"/u32", func(b *testing.B) { benchAssign(b, e.U32) })
		b.Run(short+"/u64", func(b *testing.B) { benchAssign(b, e.U64) })
	}
}

func benchAssign[U types.Uint](b *testing.B, a dstream.Algorithm[U]) {
	const S = 64 // valid for every registered algorithm, unbounded at u8
	b.ReportAllocs()

	var acc U
	for i := 0; i < b.N; i++ {
		T := U(i)
		if !a.HasIngestCapacity(S, T) {
			continue
		}
		if site, ok := a.AssignStorageSite(S, T); ok {
			acc += site
		}
	}
	sinkSite = uint64(acc)
}

func BenchmarkCheckWidths(b *testing.B) {
	e, err := Lookup("dstream.tilted_algo")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := e.CheckWidths(64, uint64(i)&0xffff); err != nil {
			b.Fatal(err)
		}
	}
}
