package replmend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/farcloser/replmend/internal/runconfig"
	"github.com/farcloser/replmend/internal/types"
)

var (
	errNoRunConfig  = errors.New("no .replit file found")
	errNoRunCommand = errors.New("no run command in .replit")
)

// Verify starts the run command of root's run configuration and samples it once after
// opts.Grace. The process counts as running if it has not exited by then. It is left running
// either way.
func Verify(ctx context.Context, root string, opts Options) *LaunchReport {
	applyDefaults(&opts)

	report := &LaunchReport{}

	file, err := runconfig.Load(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errNoRunConfig
		}

		slog.Error("cannot verify", "error", err)

		report.Err = err

		return report
	}

	if len(file.Run) == 0 {
		report.Err = errNoRunCommand

		return report
	}

	report.Command = file.Run

	env, err := Environment(root, file.Env)
	if err != nil {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	slog.Info("starting application", "command", file.Run)

	proc, err := opts.Launcher.Start(ctx, root, file.Run, env)
	if err != nil {
		slog.Error("failed to start application", "error", err)

		report.Err = err

		return report
	}

	report.Started = true
	report.PID = proc.PID()

	timer := time.NewTimer(opts.Grace)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		report.Err = ctx.Err()
	}

	exited, code := proc.Exited()
	if exited {
		report.ExitCode = code
		if report.Err == nil {
			report.Err = fmt.Errorf("application exited with code %d", code)
		}

		slog.Error("application failed to start", "exit_code", code)

		return report
	}

	report.Running = report.Err == nil

	if report.Running {
		slog.Info("application started successfully", "pid", report.PID)
	}

	return report
}

// Environment returns the child environment: the current one, then the project's .env file,
// then the run configuration's [env] table with ${VAR} references expanded. Later entries
// override earlier ones. A .env that cannot be read is skipped and its error returned.
func Environment(root string, table map[string]string) ([]string, error) {
	overrides := map[string]string{}

	var dotenvErr error

	dotenv := filepath.Join(root, types.DotEnvName)
	if _, err := os.Stat(dotenv); err == nil {
		values, rerr := godotenv.Read(dotenv)
		if rerr != nil {
			dotenvErr = fmt.Errorf("reading %s: %w", types.DotEnvName, rerr)
		}

		for key, value := range values {
			overrides[key] = value
		}
	}

	lookup := func(key string) string {
		if value, ok := overrides[key]; ok {
			return value
		}

		return os.Getenv(key)
	}

	expanded := make(map[string]string, len(table))
	for key, value := range table {
		expanded[key] = os.Expand(value, lookup)
	}

	for key, value := range expanded {
		overrides[key] = value
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	env := os.Environ()
	for _, key := range keys {
		env = append(env, key+"="+overrides[key])
	}

	return env, dotenvErr
}
