//nolint:wrapcheck
package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/replmend"
)

func fixCommand() *cli.Command {
	flags := append(commonFlags(),
		&cli.DurationFlag{
			Name:    "grace",
			Usage:   "How long the launched application must stay up to count as running",
			Value:   replmend.DefaultGrace,
			Sources: cli.EnvVars("REPLMEND_GRACE"),
		},
		&cli.BoolFlag{
			Name:  "skip-install",
			Usage: "Do not install python or node dependencies",
		},
		&cli.BoolFlag{
			Name:  "skip-launch",
			Usage: "Do not launch the application after fixing",
		},
	)

	return &cli.Command{
		Name:      "fix",
		Usage:     "Repair a project, install its dependencies and verify it starts",
		ArgsUsage: "<dir>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))

			root, err := projectArg(cmd)
			if err != nil {
				return err
			}

			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}

			result, err := replmend.Run(ctx, root, opts)
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if err = outputResult(root, result, cmd.String("format"), cmd.Bool("debug")); err != nil {
				return err
			}

			if !result.Healthy() {
				return cli.Exit(result.Outcome.String(), 1)
			}

			return nil
		},
	}
}
