package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ntv2/internal/algorithm"
	"ntv2/internal/datum"
	"ntv2/internal/gdalcmd"
	"ntv2/internal/job"
	"ntv2/internal/logging"
	"ntv2/internal/telemetry"
	"ntv2/internal/transform"
)

// Runner is one compiled transformation.
type Runner struct {
	job    job.Request
	algo   *algorithm.Descriptor
	req    algorithm.Request
	cmd    *gdalcmd.Command
	assets []datum.Asset

	store    Fetcher
	executor transform.Executor
	dryRun   bool
}

func (r *Runner) Command() *gdalcmd.Command { return r.cmd }

func (r *Runner) Assets() []datum.Asset { return r.assets }

func (r *Runner) Algorithm() *algorithm.Descriptor { return r.algo }

func newResult(req job.Request) *job.Result {
	return &job.Result{
		ID:        req.ID,
		Algorithm: req.Algorithm,
		Direction: req.Direction,
		Output:    req.Output,
		Started:   time.Now().UTC(),
	}
}

/*──────── execution ───────*/

// Run fetches the grids the command reads, then executes it. The returned
// result is never nil.
func (r *Runner) Run(ctx context.Context, fb transform.Feedback) (*job.Result, error) {
	res := newResult(r.job)
	res.Algorithm = r.algo.Name
	res.Direction = r.req.Direction.String()
	res.Command = r.cmd.String()

	if r.dryRun {
		if fb != nil {
			fb.Command(res.Command)
		}
		res.Status = job.StatusDryRun
		res.Finished = time.Now().UTC()
		return res, nil
	}
	if r.executor == nil {
		err := errors.New("pipeline: no executor configured")
		return res.Fail(err), err
	}

	log := logging.L().With("algorithm", r.algo.Name, "direction", res.Direction, "output", r.req.Output)
	err := r.run(ctx, fb)
	elapsed := time.Since(res.Started)

	telemetry.Runs.WithLabelValues(r.algo.Name, res.Direction, telemetry.Result(err)).Inc()
	telemetry.RunDuration.WithLabelValues(r.algo.Name).Observe(elapsed.Seconds())

	if err != nil {
		log.Error("transformation failed", "err", err, "elapsed", elapsed)
		return res.Fail(err), err
	}
	res.Status = job.StatusOK
	res.Finished = time.Now().UTC()
	log.Info("transformation finished", "elapsed", elapsed, "stages", len(r.cmd.Stages))
	return res, nil
}

func (r *Runner) run(ctx context.Context, fb transform.Feedback) error {
	if err := r.store.Ensure(ctx, r.assets...); err != nil {
		return fmt.Errorf("fetch grids: %w", err)
	}
	return r.executor.Execute(ctx, r.cmd, fb)
}
