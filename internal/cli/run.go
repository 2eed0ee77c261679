package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ntv2/internal/job"
	"ntv2/internal/pipeline"
	"ntv2/internal/transform"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		req    job.Request
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "run ALGORITHM",
		Short: "Transform one dataset",
		Long: `Transform one dataset. Datum and grid accept an option key or its index
as printed by "ntv2 list". With --dry-run the GDAL command line is printed
and nothing is downloaded or executed.`,
		Example: `  ntv2 run atvectortransform --datum gk_m31 --grid at_gis_grid --input roads.shp --output roads_etrs.shp
  ntv2 run ptrastertransform --direction inverse --datum 2 --grid 0 --input dem.tif --output dem73.tif --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Algorithm = args[0]
			c := pipeline.FromConfig(a.cfg)
			c.DryRun = dryRun

			r, err := c.Compile(req)
			if err != nil {
				return classify(err)
			}
			var fb transform.Feedback = &transform.WriterFeedback{W: a.stderr}
			if dryRun {
				fb = &transform.WriterFeedback{W: a.stdout}
			}
			res, err := r.Run(cmd.Context(), fb)
			if err != nil {
				return classify(err)
			}
			if !dryRun {
				fmt.Fprintln(a.stdout, res.Output)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Direction, "direction", "direct", "direct|inverse")
	f.StringVar(&req.Datum, "datum", "", "legacy datum key or index")
	f.StringVar(&req.Grid, "grid", "", "grid family key or index")
	f.StringVar(&req.Input, "input", "", "input dataset")
	f.StringVar(&req.Layer, "layer", "", "input layer (vector only)")
	f.StringVar(&req.Output, "output", "", "output dataset; the driver follows the extension")
	f.BoolVar(&dryRun, "dry-run", false, "print the command line only")
	for _, name := range []string{"datum", "grid", "input", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
