package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ntv2/internal/algorithm"
	"ntv2/internal/transport"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List algorithms with their datum and grid options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var infos []transport.AlgorithmInfo
			for _, d := range algorithm.All() {
				infos = append(infos, transport.Describe(d))
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, in := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", in.Name, in.Kind, in.DisplayName)
				for i, o := range in.Datums {
					fmt.Fprintf(tw, "\tdatum %d\t%s\t%s\n", i, o.Key, o.Label)
				}
				for i, o := range in.Grids {
					fmt.Fprintf(tw, "\tgrid %d\t%s\t%s\n", i, o.Key, o.Label)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
