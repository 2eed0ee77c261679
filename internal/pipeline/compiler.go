package pipeline

import (
	"context"
	"fmt"

	"ntv2/internal/algorithm"
	"ntv2/internal/datum"
	"ntv2/internal/job"
	"ntv2/internal/transform"
)

// Fetcher is the part of grids.Store a runner needs.
type Fetcher interface {
	Ensure(ctx context.Context, assets ...datum.Asset) error
	Path(file string) string
}

// Compiler turns job requests into runners bound to one grid store and one
// executor.
type Compiler struct {
	Store    Fetcher
	Executor transform.Executor
	// DryRun compiles and renders but neither fetches grids nor runs tools.
	DryRun bool
}

// Compile resolves req against the algorithm registry and builds its
// command. Errors here are user errors: unknown algorithm or option,
// unsupported combination, or an existing transactional output.
func (c *Compiler) Compile(req job.Request) (*Runner, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := algorithm.Lookup(req.Algorithm)
	if err != nil {
		return nil, err
	}
	dir, dt, g, err := d.Resolve(req.Direction, req.Datum, req.Grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	areq := algorithm.Request{
		Direction: dir,
		Datum:     dt.Key,
		Grid:      g.Key,
		Input:     req.Input,
		Layer:     req.Layer,
		Output:    req.Output,
	}
	if d.Kind == algorithm.Raster {
		areq.Layer = ""
	}
	cmd, err := d.Build(areq, c.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	assets, err := d.Assets(areq)
	if err != nil {
		return nil, err
	}
	return &Runner{
		job:      req,
		algo:     d,
		req:      areq,
		cmd:      cmd,
		assets:   assets,
		store:    c.Store,
		executor: c.Executor,
		dryRun:   c.DryRun,
	}, nil
}

// Do compiles and runs req. The result is never nil; compile failures are
// reported in it as well as returned.
func (c *Compiler) Do(ctx context.Context, req job.Request, fb transform.Feedback) (*job.Result, error) {
	r, err := c.Compile(req)
	if err != nil {
		res := newResult(req)
		return res.Fail(err), err
	}
	return r.Run(ctx, fb)
}
