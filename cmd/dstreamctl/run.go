package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dstreamkit/internal/logger"
	"github.com/joshuapare/dstreamkit/pkg/catalog"
)

var runCheckWidths bool

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runCheckWidths, "check-widths", false,
		"Also evaluate at every narrower integer width and fail on disagreement")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Answer site assignment queries read from stdin",
		Long: `The run command reads "S T" pairs, one per line, from standard input until
end of input. For each pair it prints one line:

  (empty)   the algorithm has no ingest capacity for (S, T)
  None      the arrival is discarded
  <site>    the site the arrival is stored to

Example:
  printf '4 0\n4 4\n' | dstreamctl run dstream.steady_algo.assign_storage_site
  dstreamctl run dstream.tilted_algo --check-widths < queries.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args, os.Stdin)
		},
	}
}

func runRun(args []string, in io.Reader) error {
	entry, err := catalog.Lookup(args[0])
	if err != nil {
		return err
	}
	logger.Debug("serving line protocol", "algo", entry.Name, "check_widths", runCheckWidths)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		S, T, err := parsePair(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		var res catalog.Result
		if runCheckWidths {
			res, err = entry.CheckWidths(S, T)
			if err != nil {
				out.Flush()
				return fmt.Errorf("line %d: %w", line, err)
			}
		} else {
			res = entry.Eval(S, T)
		}

		if _, err := fmt.Fprintln(out, res.String()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// parsePair parses "S T" as two unsigned 64-bit integers.
func parsePair(text string) (S, T uint64, err error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"S T\", got %q", text)
	}
	if S, err = strconv.ParseUint(fields[0], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid S: %w", err)
	}
	if T, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid T: %w", err)
	}
	return S, T, nil
}
