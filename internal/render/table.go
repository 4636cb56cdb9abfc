package render

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/dstreamkit/pkg/types"
)

// SiteRow is one line of an occupancy report.
type SiteRow struct {
	Site   uint64  `json:"site"`
	Ingest *uint64 `json:"ingest_time"`
	Depth  *uint64 `json:"deposition_depth,omitempty"`
}

// Rows converts lookup results at rank T into report rows. Empty sites
// carry a nil Ingest.
func Rows(sites []types.Occupant[uint64], T uint64) []SiteRow {
	rows := make([]SiteRow, len(sites))
	for k, o := range sites {
		rows[k].Site = uint64(k)
		if !o.Present {
			continue
		}
		ingest, depth := o.IngestTime, T-o.IngestTime
		rows[k].Ingest = &ingest
		rows[k].Depth = &depth
	}
	return rows
}

// Table writes rows as aligned columns with localized digit grouping.
func Table(w io.Writer, rows []SiteRow, lang language.Tag) error {
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "site\tingest time\tdepth\t\n")
	for _, r := range rows {
		if r.Ingest == nil {
			p.Fprintf(tw, "%d\t-\t-\t\n", r.Site)
			continue
		}
		p.Fprintf(tw, "%d\t%d\t%d\t\n", r.Site, *r.Ingest, *r.Depth)
	}
	return tw.Flush()
}
