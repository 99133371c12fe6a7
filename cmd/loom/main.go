// Command loom builds and serves per-tenant retrieval indexes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.App{
		Version: version,
		Open:    openServices,
	}
	err := cli.Execute(ctx, app, os.Args[1:])
	stop()

	if err != nil {
		os.Exit(1)
	}
}
