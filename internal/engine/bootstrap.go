package engine

import (
	"context"
	"fmt"

	"ntv2/internal/config"
	"ntv2/internal/pipeline"
	"ntv2/internal/telemetry"
	"ntv2/internal/transport"
	"ntv2/sink"
	"ntv2/sink/stdout"
	"ntv2/source/kafka"
)

func Bootstrap(ctx context.Context, cfg config.Config) (*Engine, error) {
	compiler := pipeline.FromConfig(cfg)

	// 1. queue worker (optional)
	var worker *Worker
	if cfg.Serve.Queue != "" {
		var err error
		if worker, err = newQueueWorker(cfg, compiler); err != nil {
			return nil, fmt.Errorf("queue: %w", err)
		}
	}

	// 2. transport server
	srv, err := transport.StartServer(cfg.Serve.GRPCPort, compiler)
	if err != nil {
		if worker != nil {
			_ = worker.Close()
		}
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 3. metrics
	e := &Engine{transport: srv, worker: worker}
	if cfg.Serve.MetricsPort > 0 {
		e.metrics = telemetry.Expose(cfg.Serve.MetricsPort)
	}
	return e, nil
}

func newQueueWorker(cfg config.Config, c *pipeline.Compiler) (*Worker, error) {
	kc, err := config.LoadKafkaConfig(cfg.Serve.Queue)
	if err != nil {
		return nil, err
	}
	src, err := kafka.NewAdapter(cfg.Serve.QueueDriver)
	if err != nil {
		return nil, err
	}
	if err := src.Configure(kc); err != nil {
		return nil, err
	}
	sinks, err := buildSinks(cfg)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return NewWorker(src, c, sinks...), nil
}

func buildSinks(cfg config.Config) ([]sink.Adapter, error) {
	var out []sink.Adapter
	closeAll := func() {
		for _, s := range out {
			_ = s.Close()
		}
	}
	for _, name := range cfg.Serve.Sinks {
		s, err := sink.NewAdapter(name)
		if err != nil {
			closeAll()
			return nil, err
		}

		switch name {
		case "stdout":
			err = s.Configure(stdout.Config{})
		case "kafka":
			if cfg.Serve.KafkaSink == "" {
				err = fmt.Errorf("sink kafka needs serve.kafka_sink")
				break
			}
			kc, lerr := config.LoadKafkaSinkConfig(cfg.Serve.KafkaSink)
			if lerr != nil {
				err = lerr
				break
			}
			err = s.Configure(kc)
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			closeAll()
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
