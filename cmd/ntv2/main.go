package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ntv2/internal/cli"
	"ntv2/internal/logging"
	"ntv2/source/kafka"
)

func main() {
	logging.InitFromEnv()
	kafka.Register("sarama", func() kafka.Adapter { return &kafka.SaramaDriver{} })

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
