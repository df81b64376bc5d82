package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/haguru/bloguser/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCommand(cli.DefaultServiceFactory).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
