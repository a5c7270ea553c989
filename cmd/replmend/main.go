package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/replmend/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Diagnose and repair projects that fail to run in a hosted sandbox",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			diagnoseCommand(),
			fixCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
