package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ntv2/internal/datum"
	"ntv2/internal/pipeline"
)

func newFetchCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "fetch [REGION...]",
		Short: "Download the grid files of the given regions (all when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := datum.Regions()
			if len(args) > 0 && !all {
				regions = regions[:0:0]
				for _, code := range args {
					r, ok := datum.Lookup(code)
					if !ok {
						return usageError(fmt.Errorf("unknown region %q", code))
					}
					regions = append(regions, r)
				}
			}

			store := pipeline.NewStore(a.cfg)
			for _, r := range regions {
				if err := store.Ensure(cmd.Context(), r.Assets...); err != nil {
					return failureError(fmt.Errorf("%s: %w", r.Code, err))
				}
				for _, as := range r.Assets {
					fmt.Fprintln(a.stdout, store.Path(as.File))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "fetch every region")
	return cmd
}
