package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"ntv2/internal/engine"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve transformations over gRPC, optionally consuming a Kafka job queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine.Bootstrap(cmd.Context(), a.cfg)
			if err != nil {
				return failureError(err)
			}
			if err := e.Run(cmd.Context()); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return failureError(err)
			}
			return nil
		},
	}
}
