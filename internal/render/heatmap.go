package render

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ramp shades deposition depth from fresh (left) to old (right).
const ramp = " .:-=+*#%@"

// emptyCell marks a site that has never been written.
const emptyCell = '_'

// HeatmapOptions controls heatmap layout.
type HeatmapOptions struct {
	// MaxColumns caps the number of site columns. Sites are sampled evenly
	// when S exceeds it. Zero means no cap.
	MaxColumns int
	// Lang selects number formatting for rank labels. Defaults to English.
	Lang language.Tag
	// Legend styles the legend line, for example to dim it on a terminal.
	Legend func(string) string
}

// Heatmap writes one row per snapshot, one column per (sampled) site. Each
// cell shades the deposition depth Rank - IngestTime on a log2 scale.
func Heatmap(w io.Writer, snaps []Snapshot, opts HeatmapOptions) error {
	if len(snaps) == 0 {
		return nil
	}
	lang := opts.Lang
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)

	S := len(snaps[0].Sites)
	cols := SampleColumns(S, opts.MaxColumns)

	labels := make([]string, len(snaps))
	labelWidth := 0
	for i, snap := range snaps {
		labels[i] = p.Sprintf("%d", snap.Rank)
		labelWidth = max(labelWidth, len(labels[i]))
	}

	// Depth ranges up to the final rank.
	scale := bits.Len64(snaps[len(snaps)-1].Rank)

	var row strings.Builder
	for i, snap := range snaps {
		row.Reset()
		for _, k := range cols {
			row.WriteByte(shade(snap.Rank, snap.Sites[k].IngestTime, snap.Sites[k].Present, scale))
		}
		if _, err := fmt.Fprintf(w, "%*s |%s|\n", labelWidth, labels[i], row.String()); err != nil {
			return err
		}
	}

	legend := p.Sprintf("%d of %d sites, depth shaded %q (log2), %q never written",
		len(cols), S, ramp, string(emptyCell))
	if opts.Legend != nil {
		legend = opts.Legend(legend)
	}
	_, err := fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", labelWidth), legend)
	return err
}

// SampleColumns picks at most maxCols site indices spread evenly over
// [0, S). maxCols <= 0 selects every site.
func SampleColumns(S, maxCols int) []int {
	n := S
	if maxCols > 0 && maxCols < S {
		n = maxCols
	}
	cols := make([]int, n)
	for i := range cols {
		cols[i] = i * S / n
	}
	return cols
}

func shade(rank, ingest uint64, present bool, scale int) byte {
	if !present {
		return emptyCell
	}
	depth := rank - ingest
	if scale == 0 {
		return ramp[0]
	}
	idx := bits.Len64(depth) * (len(ramp) - 1) / scale
	return ramp[min(idx, len(ramp)-1)]
}
