//nolint:wrapcheck
package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/replmend"
)

func diagnoseCommand() *cli.Command {
	return &cli.Command{
		Name:      "diagnose",
		Usage:     "Report the issues that would keep a project from running, without changing anything",
		ArgsUsage: "<dir>",
		Flags:     commonFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))

			root, err := projectArg(cmd)
			if err != nil {
				return err
			}

			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}

			diag, err := replmend.Diagnose(root, opts)
			if err != nil {
				return fmt.Errorf("diagnosis failed: %w", err)
			}

			if err = outputDiagnosis(root, diag, cmd.String("format"), cmd.Bool("debug")); err != nil {
				return err
			}

			if len(diag.Issues) > 0 {
				return cli.Exit(fmt.Sprintf("%d issues found", len(diag.Issues)), 1)
			}

			return nil
		},
	}
}
