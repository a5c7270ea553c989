//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/replmend"
	"github.com/farcloser/replmend/internal/config"
)

var errInvalidArgCount = errors.New("expected exactly one argument: project directory")

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "checks",
			Aliases: []string{"C"},
			Usage:   "Comma-separated checks or presets: all, binding, sources, run-config, entry-point, static-site, manifest",
			Value:   "all",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Additional directory names to skip while scanning",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to a YAML configuration file",
			Sources: cli.EnvVars("REPLMEND_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
			Sources: cli.EnvVars("REPLMEND_FORMAT"),
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"D"},
			Usage:   "Verbose logging and all raw detection data in output",
		},
	}
}

// setupLogging installs the default logger on stderr, tagged with a fresh run id.
func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger.With("run", uuid.New().String()))
}

// projectArg returns the single project directory argument.
func projectArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	return cmd.Args().First(), nil
}

// buildOptions layers defaults, then the config file, then explicitly set flags.
func buildOptions(cmd *cli.Command) (replmend.Options, error) {
	opts := replmend.DefaultOptions()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return opts, err
	}

	if err = cfg.Apply(&opts); err != nil {
		return opts, err
	}

	if cmd.IsSet("checks") {
		if opts.Checks, err = replmend.ParseChecks(cmd.String("checks")); err != nil {
			return opts, err
		}
	}

	opts.ExcludeDirs = append(opts.ExcludeDirs, cmd.StringSlice("exclude")...)

	// fix only.
	if cmd.IsSet("grace") {
		opts.Grace = cmd.Duration("grace")
	}

	if cmd.IsSet("skip-install") {
		opts.SkipInstall = cmd.Bool("skip-install")
	}

	if cmd.IsSet("skip-launch") {
		opts.SkipLaunch = cmd.Bool("skip-launch")
	}

	return opts, nil
}
