package replmend

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/farcloser/replmend/internal/bindhost"
	"github.com/farcloser/replmend/internal/fsutil"
	"github.com/farcloser/replmend/internal/manifest"
	"github.com/farcloser/replmend/internal/runconfig"
	"github.com/farcloser/replmend/internal/scaffold"
	"github.com/farcloser/replmend/internal/types"
)

var errNoRunTarget = errors.New("nothing to run")

// Remediate applies one deterministic write per recognized issue, in discovery order, and
// reports whether anything was written. Every write first checks whether it is already
// satisfied, so running it again on a repaired project writes nothing. Write failures are
// logged and leave the issue unresolved.
func Remediate(diag *Diagnosis) ([]Fix, bool) {
	var fixes []Fix

	patched := map[string]struct{}{}

	for _, issue := range diag.Issues {
		var (
			fix []Fix
			err error
		)

		switch issue.Kind {
		case KindRunConfigMissing:
			fix, err = writeRunConfig(diag)
		case KindRunConfigStaleTarget:
			fix, err = retargetRunConfig(diag)
		case KindMissingEntryPoint:
			fix, err = scaffoldEntryPoint(diag)
		case KindMissingManifest:
			fix, err = writeRequirements(diag)
		case KindWrongBindHost, KindMissingBindHost:
			if _, done := patched[issue.Subject]; done {
				continue
			}

			patched[issue.Subject] = struct{}{}
			fix, err = patchBinding(diag, issue)
		case KindInvalidManifest, KindNoBindingFound, KindNoSourceFiles, KindRunConfigMissingCommand,
			KindInvalidRunConfig, KindMissingIndexHTML:
			continue
		}

		if err != nil {
			slog.Error("failed to apply fix", "kind", issue.Kind, "subject", issue.Subject, "error", err)
		}

		for _, f := range fix {
			slog.Info("applied fix", "kind", f.Kind, "description", f.Description)
		}

		fixes = append(fixes, fix...)
	}

	return fixes, len(fixes) > 0
}

// runTarget picks what a synthesized run command starts: main.py when it exists or is about to
// be scaffolded, else the first python file, else npm start for a node project.
func runTarget(diag *Diagnosis) ([]string, map[string]string, error) {
	inv := diag.Inventory

	willScaffold := diag.Has(KindMissingEntryPoint) && len(inv.HTMLFiles) > 0
	if willScaffold || fsutil.Exists(filepath.Join(inv.Root, types.EntryPointName)) {
		return runconfig.PythonCommand(types.EntryPointName), runconfig.PythonEnv(inv.Root), nil
	}

	if len(inv.PythonFiles) > 0 {
		return runconfig.PythonCommand(inv.PythonFiles[0]), runconfig.PythonEnv(inv.Root), nil
	}

	if diag.Classification.Facts.Has(types.FactNode) {
		return runconfig.NodeCommand(), nil, nil
	}

	return nil, nil, errNoRunTarget
}

func writeRunConfig(diag *Diagnosis) ([]Fix, error) {
	run, env, err := runTarget(diag)
	if err != nil {
		return nil, err
	}

	data, err := runconfig.Synthesize(run, env)
	if err != nil {
		return nil, err
	}

	created, err := fsutil.CreateExclusive(runconfig.Path(diag.Inventory.Root), data)
	if err != nil || !created {
		return nil, err
	}

	return []Fix{{
		Kind:        KindRunConfigMissing,
		Description: fmt.Sprintf("Created .replit file with run command: %s", runconfig.FormatList(run)),
		Paths:       []string{types.RunConfigName},
	}}, nil
}

func retargetRunConfig(diag *Diagnosis) ([]Fix, error) {
	run, _, err := runTarget(diag)
	if err != nil {
		return nil, err
	}

	if target, _ := runconfig.Target(run); target == diag.RunConfig.MissingTarget {
		// The entry point scaffold brings the target into existence.
		return nil, nil
	}

	root := diag.Inventory.Root

	file, err := runconfig.Load(root)
	if err != nil {
		return nil, err
	}

	if current, ok := runconfig.Target(file.Run); !ok || current != diag.RunConfig.MissingTarget {
		// Already changed since detection.
		return nil, nil
	}

	text, ok := runconfig.RewriteRun(file.Raw, run)
	if !ok {
		return nil, fmt.Errorf("could not locate the run assignment in %s", types.RunConfigName)
	}

	if err = fsutil.AtomicWrite(runconfig.Path(root), []byte(text)); err != nil {
		return nil, err
	}

	return []Fix{{
		Kind:        KindRunConfigStaleTarget,
		Description: fmt.Sprintf("Updated .replit run command to %s", runconfig.FormatList(run)),
		Paths:       []string{types.RunConfigName},
	}}, nil
}

func scaffoldEntryPoint(diag *Diagnosis) ([]Fix, error) {
	inv := diag.Inventory
	if len(inv.HTMLFiles) == 0 {
		return nil, nil
	}

	written, err := scaffold.Scaffold(inv.Root, inv)

	fixes := make([]Fix, 0, len(written))
	for _, w := range written {
		fixes = append(fixes, Fix{Kind: KindMissingEntryPoint, Description: w.Description, Paths: []string{w.Path}})
	}

	return fixes, err
}

func writeRequirements(diag *Diagnosis) ([]Fix, error) {
	name := types.ManifestRequirements.String()
	content := manifest.Requirements(diag.Classification.Facts)

	created, err := fsutil.CreateExclusive(filepath.Join(diag.Inventory.Root, name), []byte(content))
	if err != nil || !created {
		return nil, err
	}

	return []Fix{{
		Kind:        KindMissingManifest,
		Description: "Created requirements.txt with basic dependencies",
		Paths:       []string{name},
	}}, nil
}

func patchBinding(diag *Diagnosis, issue Issue) ([]Fix, error) {
	text, err := diag.reader.Text(issue.Subject)
	if err != nil {
		return nil, err
	}

	patched, edits := bindhost.Patch(text)
	if len(edits) == 0 {
		return nil, nil
	}

	if err = fsutil.AtomicWrite(diag.reader.Abs(issue.Subject), []byte(patched)); err != nil {
		return nil, err
	}

	diag.reader.Forget(issue.Subject)

	for _, edit := range edits {
		slog.Debug("replmend.patchBinding", "file", issue.Subject, "callee", edit.Callee, "from", edit.From)
	}

	return []Fix{{
		Kind:        issue.Kind,
		Description: fmt.Sprintf("Updated %s to bind to %s", issue.Subject, types.UniversalHost),
		Paths:       []string{issue.Subject},
	}}, nil
}
