package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dstreamkit/pkg/catalog"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered algorithms",
		Long: `The list command prints every operation name accepted by run, lookup and viz.

Example:
  dstreamctl list
  dstreamctl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

type listEntry struct {
	Name       string `json:"name"`
	ClosedForm bool   `json:"closed_form_lookup"`
}

func runList() error {
	names := catalog.Names()

	if jsonOut {
		entries := make([]listEntry, 0, len(names))
		for _, name := range names {
			e, err := catalog.Lookup(name)
			if err != nil {
				return err
			}
			entries = append(entries, listEntry{Name: name, ClosedForm: e.HasClosedForm()})
		}
		return printJSON(entries)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
