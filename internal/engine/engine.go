package engine

import (
	"context"
	"errors"
	"net/http"

	"ntv2/internal/logging"
	"ntv2/internal/transport"
)

type Engine struct {
	transport *transport.Server
	metrics   *http.Server
	worker    *Worker
}

// Run serves until ctx is cancelled, then stops the gRPC server and closes
// the queue source and sinks.
func (e *Engine) Run(ctx context.Context) error {
	if e.worker != nil {
		go func() {
			if err := e.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.L().Error("queue worker stopped", "err", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		e.transport.Stop()
		if e.worker != nil {
			_ = e.worker.Close()
		}
		if e.metrics != nil {
			_ = e.metrics.Close()
		}
	}()

	logging.L().Info("serving", "addr", e.transport.Addr().String())
	return e.transport.Serve()
}
