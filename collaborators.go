package replmend

import (
	"context"
	"os"

	"github.com/farcloser/replmend/internal/integration/launch"
	"github.com/farcloser/replmend/internal/integration/npm"
	"github.com/farcloser/replmend/internal/integration/pip"
)

// Installer installs declared dependencies.
type Installer interface {
	// InstallPython installs the requirements file manifest, relative to root.
	InstallPython(ctx context.Context, root, manifest string) error
	// InstallNode installs the dependencies of the package.json in dir.
	InstallNode(ctx context.Context, dir string) error
}

// Process is a launched application.
type Process interface {
	// Exited reports whether the process has exited, and its exit code if so.
	Exited() (bool, int)
	PID() int
}

// Launcher starts the application. A started process is never stopped by replmend.
type Launcher interface {
	Start(ctx context.Context, dir string, argv, env []string) (Process, error)
}

// SystemInstaller shells out to pip (or pip3) and npm.
type SystemInstaller struct{}

func (SystemInstaller) InstallPython(ctx context.Context, root, manifest string) error {
	return pip.Install(ctx, root, manifest)
}

func (SystemInstaller) InstallNode(ctx context.Context, dir string) error {
	return npm.Install(ctx, dir)
}

// SystemLauncher starts a real child process whose output goes to stderr.
type SystemLauncher struct{}

// Start ignores ctx: the child is detached from the run and keeps going after it.
func (SystemLauncher) Start(_ context.Context, dir string, argv, env []string) (Process, error) {
	proc, err := launch.Start(dir, argv, env, os.Stderr)
	if err != nil {
		return nil, err
	}

	return proc, nil
}
