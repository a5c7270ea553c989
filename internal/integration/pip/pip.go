// Package pip installs python requirements with pip, falling back to pip3.
package pip

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
	name     = "pip"
	fallback = "pip3"
	// Resolving and downloading wheels on a cold cache is slow.
	timeout = 10 * time.Minute
)

// Install runs `pip install -r requirements` in dir.
func Install(ctx context.Context, dir, requirements string) error {
	slog.Debug("pip.Install", "requirements", requirements, "stage", "start")

	pipPath, used, found := binary.First(name, fallback)
	if !found {
		return fmt.Errorf("%w: %s or %s", fault.ErrMissingRequirements, name, fallback)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, pipPath, "install", "-r", requirements)
	cmd.Dir = dir

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("pip.Install", "binary", used, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("pip.Install", "binary", used, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug("pip.Install", "binary", used, "stage", "done")

	return nil
}
