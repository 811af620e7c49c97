package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routedefs/pkg/routedef"
)

func resolveCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and print route definitions",
		Long: `Resolve the route definitions of every enabled kind and print them.

Resolution fails as a whole if any kind fails: a missing or malformed
manifest, a duplicated route or an artifact reference that cannot be
normalized stops the command without printing a partial result.

Examples:
  routedefs resolve
  routedefs resolve --dist .next --kind pages-api
  routedefs resolve --json
  routedefs resolve --bucket builds --prefix web/server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)
			_, _, registry, err := setup(cmd.Context(), flags, logger)
			if err != nil {
				return err
			}

			sets, err := registry.ResolveAll(cmd.Context())
			if err != nil {
				return err
			}
			ordered := orderedSets(registry.Kinds(), sets)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeSetsJSON(out, ordered)
			}
			if !quiet {
				writeSetsTable(out, ordered)
			}

			total := 0
			for _, set := range ordered {
				total += set.Len()
			}
			success(out, "Resolved %d route definitions across %d kinds", total, len(ordered))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the definitions as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")

	return cmd
}

func writeSetsJSON(w io.Writer, sets []*routedef.Set) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sets)
}

func writeSetsTable(w io.Writer, sets []*routedef.Set) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tPAGE\tPATHNAME\tFILENAME")
	for _, set := range sets {
		for _, def := range set.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Kind, def.Page, def.Pathname, def.Filename)
		}
	}
	tw.Flush()
}
