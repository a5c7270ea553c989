package replmend

import (
	"time"

	"github.com/farcloser/replmend/internal/source"
	"github.com/farcloser/replmend/internal/types"
)

// DefaultGrace is how long a launched application must stay alive to count as running.
const DefaultGrace = 2 * time.Second

// Options configures a run.
type Options struct {
	Checks Check // which checks to run (default: ChecksAll)

	// ExcludeDirs are directory names skipped in addition to the built-in ones.
	ExcludeDirs []string

	// Grace is the delay between starting the application and sampling it (default: 2s).
	Grace time.Duration

	SkipInstall bool
	SkipLaunch  bool

	// Collaborators. Nil means the system implementations.
	Installer Installer
	Launcher  Launcher
}

// DefaultOptions returns options running every check with the system collaborators.
func DefaultOptions() Options {
	return Options{
		Checks: ChecksAll,
		Grace:  DefaultGrace,
	}
}

func applyDefaults(opts *Options) {
	if opts.Checks == 0 {
		opts.Checks = ChecksAll
	}

	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}

	if opts.Installer == nil {
		opts.Installer = SystemInstaller{}
	}

	if opts.Launcher == nil {
		opts.Launcher = SystemLauncher{}
	}
}

// Diagnosis is the read-only part of a run.
type Diagnosis struct {
	Inventory      *types.Inventory
	Classification types.Classification

	// Issues in discovery order.
	Issues []Issue

	// Raw detections (for inspection, nil if the check did not run)
	Binding    *types.BindingDetection
	RunConfig  *types.RunConfigDetection
	EntryPoint *types.EntryPointDetection
	StaticSite *types.StaticSiteDetection
	Manifest   *types.ManifestDetection

	reader *source.Reader
}

// Has reports whether an issue of kind was found.
func (d *Diagnosis) Has(kind Kind) bool {
	for _, issue := range d.Issues {
		if issue.Kind == kind {
			return true
		}
	}

	return false
}

// InstallReport describes one package manager invocation.
type InstallReport struct {
	Ecosystem string
	Manifest  string
	Err       error
}

// LaunchReport describes the verification launch.
type LaunchReport struct {
	Command  []string
	Started  bool
	Running  bool
	ExitCode int
	PID      int
	Err      error
}

// Result contains everything a run found and did.
type Result struct {
	*Diagnosis

	Fixes    []Fix
	Installs []InstallReport
	Launch   *LaunchReport
	Outcome  Outcome
}

// Unresolved returns the issues no fix addressed.
func (r *Result) Unresolved() []Issue {
	fixed := Kind(0)
	subjects := map[string]struct{}{}

	for _, fix := range r.Fixes {
		fixed |= fix.Kind

		for _, p := range fix.Paths {
			subjects[p] = struct{}{}
		}
	}

	var out []Issue

	for _, issue := range r.Issues {
		if fixed&issue.Kind == 0 {
			out = append(out, issue)

			continue
		}

		if issue.Subject != "" && issue.Kind&(KindWrongBindHost|KindMissingBindHost) != 0 {
			if _, ok := subjects[issue.Subject]; !ok {
				out = append(out, issue)
			}
		}
	}

	return out
}

// Healthy reports whether the project ended up running: nothing was wrong or everything was
// fixed, and the launch stayed up.
func (r *Result) Healthy() bool {
	switch r.Outcome {
	case OutcomeFixedAndVerified:
		return true
	case OutcomeNoIssues:
		return r.Launch == nil || r.Launch.Running
	case OutcomeFixedButUnverified, OutcomeUnfixable:
	}

	return false
}
