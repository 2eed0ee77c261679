package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ntv2/internal/config"
	"ntv2/internal/logging"
	"ntv2/internal/pipeline"
	"ntv2/internal/transform"
	"ntv2/sink"
	"ntv2/sink/stdout"
)

func newBatchCmd(a *app) *cobra.Command {
	var keepGoing, dryRun bool
	cmd := &cobra.Command{
		Use:   "batch JOBFILE",
		Short: "Run the jobs of a YAML job file; one JSON result per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := config.LoadJobSpec(args[0])
			if err != nil {
				return usageError(err)
			}
			out, err := sink.NewAdapter("stdout")
			if err != nil {
				return err
			}
			if err := out.Configure(stdout.Config{Writer: a.stdout}); err != nil {
				return err
			}
			defer out.Close()

			c := pipeline.FromConfig(a.cfg)
			c.DryRun = dryRun

			failed := 0
			for _, req := range jobs {
				res, err := c.Do(cmd.Context(), req, transform.LogFeedback{Algorithm: req.Algorithm})
				if perr := out.Push(res); perr != nil {
					return failureError(perr)
				}
				if err == nil {
					continue
				}
				failed++
				if !keepGoing {
					return classify(fmt.Errorf("job %s: %w", req.ID, err))
				}
				if cmd.Context().Err() != nil {
					return failureError(cmd.Context().Err())
				}
			}
			logging.L().Info("batch finished", "jobs", len(jobs), "failed", failed)
			if failed > 0 {
				return failureError(fmt.Errorf("%d of %d jobs failed", failed, len(jobs)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after a failed job")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render commands without fetching or running")
	return cmd
}
