package kafka

import (
	"context"

	"ntv2/internal/job"
)

// EmitFunc handles one queued job. The message is marked consumed only after
// EmitFunc returns nil.
type EmitFunc func(context.Context, *job.Message) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
