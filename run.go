package replmend

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/farcloser/replmend/internal/fsutil"
	"github.com/farcloser/replmend/internal/types"
)

// Run diagnoses root, repairs what it can, installs dependencies and launches the project.
//
//	issues, at least one write  -> install, verify -> FixedAndVerified | FixedButUnverified
//	issues, nothing written     -> Unfixable, nothing installed or launched
//	no issues                   -> install, verify -> NoIssues (see Result.Launch)
//
// The only error is an unreadable root. Install and launch failures are recorded in the result.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	applyDefaults(&opts)

	diag, err := Diagnose(root, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Diagnosis: diag, Outcome: OutcomeNoIssues}

	if len(diag.Issues) > 0 {
		slog.Info("issues detected", "count", len(diag.Issues))

		var wrote bool

		result.Fixes, wrote = Remediate(diag)
		if !wrote {
			slog.Warn("issues were found but none could be fixed automatically")

			result.Outcome = OutcomeUnfixable

			return result, nil
		}
	} else {
		slog.Info("no issues detected")
	}

	if !opts.SkipInstall {
		result.Installs = Install(ctx, diag, opts.Installer)
	}

	if !opts.SkipLaunch {
		result.Launch = Verify(ctx, root, opts)
	}

	if len(diag.Issues) > 0 {
		if result.Launch != nil && result.Launch.Running {
			result.Outcome = OutcomeFixedAndVerified
		} else {
			result.Outcome = OutcomeFixedButUnverified
		}
	}

	slog.Info("run complete", "outcome", result.Outcome, "fixes", len(result.Fixes))

	return result, nil
}

// Install installs the python requirements and node dependencies of a diagnosed project. Each
// ecosystem uses the manifest the scan found, at any depth, or else the one sitting directly
// under the root (which remediation may have just created). npm runs in the directory of its
// package.json. Failures are logged and reported, never returned.
func Install(ctx context.Context, diag *Diagnosis, installer Installer) []InstallReport {
	if installer == nil {
		installer = SystemInstaller{}
	}

	var reports []InstallReport

	root := diag.Inventory.Root

	if requirements, ok := installable(diag.Inventory, types.ManifestRequirements); ok {
		slog.Info("installing python dependencies", "manifest", requirements)

		err := installer.InstallPython(ctx, root, requirements)
		if err != nil {
			slog.Warn("failed to install python dependencies", "error", err)
		}

		reports = append(reports, InstallReport{Ecosystem: "python", Manifest: requirements, Err: err})
	}

	if packageJSON, ok := installable(diag.Inventory, types.ManifestPackageJSON); ok {
		slog.Info("installing node dependencies", "manifest", packageJSON)

		err := installer.InstallNode(ctx, filepath.Join(root, filepath.FromSlash(path.Dir(packageJSON))))
		if err != nil {
			slog.Warn("failed to install node dependencies", "error", err)
		}

		reports = append(reports, InstallReport{Ecosystem: "node", Manifest: packageJSON, Err: err})
	}

	return reports
}

// installable returns the root-relative manifest of kind to install from, if one exists.
func installable(inv *types.Inventory, kind types.ManifestKind) (string, bool) {
	if rel, ok := inv.Manifest(kind); ok {
		return rel, true
	}

	name := kind.String()
	if fsutil.Exists(filepath.Join(inv.Root, name)) {
		return name, true
	}

	return "", false
}
