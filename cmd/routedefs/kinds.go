package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routedefs/internal/config"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the route kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.New()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tSLUG\tMANIFEST")
			for _, kind := range routekind.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, kind.Slug(), cfg.ManifestKey(kind))
			}
			tw.Flush()
		},
	}
}
