package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenbone/greenbone-feed-sync/internal/interfaces/cli"
	"github.com/greenbone/greenbone-feed-sync/internal/interfaces/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	container := di.NewContainer()
	code := cli.Execute(ctx, container, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
