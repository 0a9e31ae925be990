package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/valefinance/vale/internal/buildconfig"
	"github.com/valefinance/vale/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(buildconfig.Version()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
