// Package launch starts a project's run command and leaves it running.
package launch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend/internal/integration/binary"
)

var errEmptyCommand = errors.New("empty run command")

// Process is a started child. It is never killed by this package.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
	code int
}

// Start starts argv[0] with the remaining arguments in dir. Output goes to out.
// The child outlives any context of the caller.
func Start(dir string, argv, env []string, out io.Writer) (*Process, error) {
	if len(argv) == 0 {
		return nil, errEmptyCommand
	}

	// A path with a separator resolves against dir, like exec.Cmd does.
	path := argv[0]
	if !strings.ContainsRune(path, filepath.Separator) && !strings.ContainsRune(path, '/') {
		var found bool
		if path, found = binary.Available(argv[0]); !found {
			return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, argv[0])
		}
	}

	//nolint:gosec // the command comes from the project's own run configuration
	cmd := exec.Command(path, argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrCommandFailure, err)
	}

	slog.Debug("launch.Start", "command", argv, "pid", cmd.Process.Pid, "stage", "started")

	proc := &Process{cmd: cmd, done: make(chan struct{})}

	go func() {
		err := cmd.Wait()

		proc.code = -1
		if cmd.ProcessState != nil {
			proc.code = cmd.ProcessState.ExitCode()
		}

		slog.Debug("launch.Start", "pid", cmd.Process.Pid, "stage", "exited", "code", proc.code, "error", err)

		close(proc.done)
	}()

	return proc, nil
}

// Exited reports whether the child has exited, and its exit code if so.
func (p *Process) Exited() (bool, int) {
	select {
	case <-p.done:
		return true, p.code
	default:
		return false, 0
	}
}

// PID returns the child's process id.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}
