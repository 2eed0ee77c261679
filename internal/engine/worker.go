package engine

import (
	"context"
	"errors"
	"fmt"

	"ntv2/internal/job"
	"ntv2/internal/logging"
	"ntv2/internal/pipeline"
	"ntv2/internal/transform"
	"ntv2/sink"
	"ntv2/source/kafka"
)

// Worker runs queued jobs one at a time and pushes every result, failures
// included, to all sinks.
type Worker struct {
	source   kafka.Adapter
	sinks    []sink.Adapter
	compiler *pipeline.Compiler
}

func NewWorker(src kafka.Adapter, c *pipeline.Compiler, sinks ...sink.Adapter) *Worker {
	return &Worker{source: src, sinks: sinks, compiler: c}
}

func (w *Worker) Run(ctx context.Context) error {
	if w.source == nil {
		return errors.New("worker: no source configured")
	}
	return w.source.Run(ctx, w.handle)
}

// handle returns an error only when a result could not be delivered; the
// message then stays unmarked and is redelivered.
func (w *Worker) handle(ctx context.Context, m *job.Message) error {
	req, err := m.Decode()
	var res *job.Result
	if err != nil {
		logging.L().Warn("worker: undecodable job", "topic", m.Topic, "partition", m.Part, "offset", m.Offset, "err", err)
		res = (&job.Result{ID: m.ID()}).Fail(err)
		res.Started = res.Finished
	} else {
		res, _ = w.compiler.Do(ctx, req, transform.LogFeedback{Algorithm: req.Algorithm})
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return w.push(res)
}

/*──────── result routing ───────*/
func (w *Worker) push(r *job.Result) error {
	for _, s := range w.sinks {
		if err := s.Push(r); err != nil {
			return fmt.Errorf("sink: %w", err)
		}
	}
	return nil
}

func (w *Worker) Close() error {
	var errs []error
	if w.source != nil {
		errs = append(errs, w.source.Close())
	}
	for _, s := range w.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
