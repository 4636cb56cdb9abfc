package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/dstreamkit/internal/logger"
	"github.com/joshuapare/dstreamkit/internal/render"
	"github.com/joshuapare/dstreamkit/pkg/catalog"
	"github.com/joshuapare/dstreamkit/pkg/types"
)

const (
	defaultVizColumns = 80
	maxVizSteps       = 1 << 24
)

// rankScale selects how heatmap rows are spaced over the history.
type rankScale string

const (
	scaleLog    rankScale = "log"
	scaleLinear rankScale = "linear"
)

// Styles degrade to plain text when stdout is not a color terminal.
var (
	vizHeaderStyle = lipgloss.NewStyle().Bold(true)
	vizLegendStyle = lipgloss.NewStyle().Faint(true)
)

var _ pflag.Value = (*rankScale)(nil)

func (s *rankScale) String() string { return string(*s) }
func (s *rankScale) Type() string   { return "scale" }

func (s *rankScale) Set(v string) error {
	switch rankScale(v) {
	case scaleLog, scaleLinear:
		*s = rankScale(v)
		return nil
	default:
		return fmt.Errorf("scale must be %q or %q", scaleLog, scaleLinear)
	}
}

var (
	vizSteps   uint64
	vizRows    int
	vizColumns int
	vizScale   = scaleLog
)

func init() {
	cmd := newVizCmd()
	addVizFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}

func addVizFlags(fs *pflag.FlagSet) {
	fs.Uint64Var(&vizSteps, "steps", 0, "Number of arrivals to simulate (default: min(S*S, capacity))")
	fs.IntVar(&vizRows, "rows", 24, "Number of heatmap rows")
	fs.IntVar(&vizColumns, "columns", 0, "Maximum site columns (default: terminal width)")
	fs.Var(&vizScale, "scale", "Row spacing: log or linear")
}

func newVizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "viz <algorithm> <S>",
		Short: "Draw a deposition-depth heatmap",
		Long: `The viz command simulates arrivals on an S-site buffer and draws one row per
sampled rank. Each column is a site, shaded by the age of the arrival it
holds (rank minus ingest time) on a log2 scale.

Example:
  dstreamctl viz dstream.steady_algo 64 --steps 100000
  dstreamctl viz dstream.tilted_algo 32 --scale linear --rows 40`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViz(args)
		},
	}
}

func runViz(args []string) error {
	entry, err := catalog.Lookup(args[0])
	if err != nil {
		return err
	}
	S, err := parseUint("S", args[1])
	if err != nil {
		return err
	}
	if !entry.U64.ValidSurfaceSize(S) {
		return fmt.Errorf("cannot visualize %s: %w", entry.Name, types.PreconditionError(entry.U64.Name(), false, S, 0))
	}
	if S > maxReportSites {
		return &types.Error{
			Kind: types.ErrKindOverflow,
			Msg:  fmt.Sprintf("S=%d exceeds the report limit of %d sites", S, maxReportSites),
		}
	}

	steps := vizSteps
	if steps == 0 {
		steps = min(S*S, maxVizSteps)
	}
	if n, bounded := entry.U64.IngestCapacity(S); bounded && steps > n {
		logger.Warn("clamping steps to ingest capacity", "algo", entry.Name, "S", S, "steps", steps, "capacity", n)
		printVerbose("Clamping steps to ingest capacity %d\n", n)
		steps = n
	}
	if steps > maxVizSteps {
		return fmt.Errorf("--steps %d exceeds the limit of %d", steps, maxVizSteps)
	}

	var ranks []uint64
	if vizScale == scaleLinear {
		ranks = render.LinRanks(steps, vizRows)
	} else {
		ranks = render.GeomRanks(steps, vizRows)
	}
	logger.Debug("simulating history", "algo", entry.Name, "S", S, "steps", steps, "rows", len(ranks))

	snaps, err := render.History(entry.U64, S, ranks)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printInfo("%s\n", vizHeaderStyle.Render(fmt.Sprintf("%s  S=%d  steps=%d", entry.Name, S, steps)))
	return render.Heatmap(os.Stdout, snaps, render.HeatmapOptions{
		MaxColumns: vizColumnBudget(steps),
		Legend:     func(s string) string { return vizLegendStyle.Render(s) },
	})
}

// vizColumnBudget returns how many site columns fit next to the rank labels.
func vizColumnBudget(steps uint64) int {
	if vizColumns > 0 {
		return vizColumns
	}
	width, ok := render.TerminalWidth(int(os.Stdout.Fd()))
	if !ok {
		width = defaultVizColumns
	}
	// Rank label with grouping separators, plus " |" and "|".
	label := len(fmt.Sprint(steps))
	label += (label - 1) / 3
	return max(width-label-3, 8)
}
