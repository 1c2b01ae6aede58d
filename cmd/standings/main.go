package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/standings/internal/cli"
	"github.com/okian/standings/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
