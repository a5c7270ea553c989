// Package npm installs node dependencies.
package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend/internal/integration/binary"
)

const (
	name    = "npm"
	timeout = 10 * time.Minute
)

// Install runs `npm install` in dir.
func Install(ctx context.Context, dir string) error {
	slog.Debug("npm.Install", "dir", dir, "stage", "start")

	npmPath, found := binary.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, npmPath, "install")
	cmd.Dir = dir

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("npm.Install", "dir", dir, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("npm.Install", "dir", dir, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
