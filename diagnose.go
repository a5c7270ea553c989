package replmend

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/farcloser/replmend/internal/audit/binding"
	"github.com/farcloser/replmend/internal/audit/deps"
	"github.com/farcloser/replmend/internal/audit/entrypoint"
	"github.com/farcloser/replmend/internal/audit/runcfg"
	"github.com/farcloser/replmend/internal/audit/staticsite"
	"github.com/farcloser/replmend/internal/classify"
	"github.com/farcloser/replmend/internal/inventory"
	"github.com/farcloser/replmend/internal/source"
	"github.com/farcloser/replmend/internal/types"
)

// Diagnose scans root, classifies the project and runs the selected checks. Nothing is
// written. The only error is an unreadable root.
func Diagnose(root string, opts Options) (*Diagnosis, error) {
	applyDefaults(&opts)

	slog.Info("scanning directory structure", "root", root)

	inv, err := inventory.Scan(root, opts.ExcludeDirs...)
	if err != nil {
		return nil, err
	}

	slog.Info("scan complete",
		"python", len(inv.PythonFiles), "javascript", len(inv.JSFiles), "html", len(inv.HTMLFiles))

	reader := source.NewReader(inv.Root)

	slog.Info("identifying web framework")

	diag := &Diagnosis{
		Inventory:      inv,
		Classification: classify.Classify(inv, reader),
		reader:         reader,
	}

	slog.Info("checking for common issues", "facts", diag.Classification.Facts)

	detect(diag, opts.Checks)

	return diag, nil
}

// detect runs the checks in their fixed order and appends the issues they find.
func detect(diag *Diagnosis, checks Check) {
	inv := diag.Inventory
	facts := diag.Classification.Facts

	if err := diag.Classification.ManifestError; err != nil {
		rel, _ := inv.Manifest(types.ManifestPackageJSON)
		diag.add(KindInvalidManifest, rel, "Invalid package.json file")
	}

	// Binding
	if checks&CheckBinding != 0 && facts.Any(types.FactsServer) {
		diag.Binding = binding.Detect(inv.PythonFiles, diag.reader)
		interpretBinding(diag)
	}

	// Sources
	if checks&CheckSources != 0 && !inv.HasSources() {
		diag.add(KindNoSourceFiles, "", "No Python or JavaScript files found")
	}

	// Run configuration
	if checks&CheckRunConfig != 0 {
		diag.RunConfig = runcfg.Detect(inv.Root)
		interpretRunConfig(diag)
	}

	// Entry point
	if checks&CheckEntryPoint != 0 {
		diag.EntryPoint = entrypoint.Detect(inv)

		if ep := diag.EntryPoint; ep.HasPythonSources && !ep.HasEntryPoint {
			if len(ep.Candidates) > 0 {
				diag.add(KindMissingEntryPoint, "", fmt.Sprintf(
					"No %s found, but other Python files exist: %s",
					types.EntryPointName, strings.Join(ep.Candidates, ", "),
				))
			} else {
				diag.add(KindMissingEntryPoint, "", fmt.Sprintf("No %s found in root directory", types.EntryPointName))
			}
		}
	}

	// Static site
	if checks&CheckStaticSite != 0 {
		diag.StaticSite = staticsite.Detect(inv, facts)

		if ss := diag.StaticSite; ss.Applicable && ss.HTMLFiles > 0 && !ss.HasIndex {
			diag.add(KindMissingIndexHTML, "", "HTML files found but no index.html")
		}
	}

	// Python manifest
	if checks&CheckManifest != 0 {
		diag.Manifest = deps.Detect(inv)

		if m := diag.Manifest; m.HasPythonSources && !m.HasManifest {
			diag.add(KindMissingManifest, "", "Python files found but no requirements.txt")
		}
	}
}

func interpretBinding(diag *Diagnosis) {
	b := diag.Binding

	for _, file := range b.Files {
		var wrong, missing *types.BindingCall

		for i := range file.Calls {
			switch call := &file.Calls[i]; call.State {
			case types.BindWrongHost:
				if wrong == nil {
					wrong = call
				}
			case types.BindMissingHost:
				if missing == nil {
					missing = call
				}
			case types.BindOK, types.BindUnknownHost, types.BindDefaultAddress:
			}
		}

		// The most specific finding wins per file.
		switch {
		case wrong != nil:
			diag.add(KindWrongBindHost, file.Path, fmt.Sprintf(
				"Web server in %s is not binding to %s (using %s instead)",
				file.Path, types.UniversalHost, wrong.Host,
			))
		case missing != nil:
			diag.add(KindMissingBindHost, file.Path, fmt.Sprintf(
				"Web server in %s does not explicitly bind to %s", file.Path, types.UniversalHost,
			))
		}
	}

	if b.CallsFound == 0 {
		diag.add(KindNoBindingFound, "", fmt.Sprintf(
			"No server-start call found for web server (should bind to %s)", types.UniversalHost,
		))
	}
}

func interpretRunConfig(diag *Diagnosis) {
	rc := diag.RunConfig

	if !rc.Exists {
		diag.add(KindRunConfigMissing, types.RunConfigName, "No .replit file found")

		return
	}

	if !rc.HasRunCommand {
		diag.add(KindRunConfigMissingCommand, types.RunConfigName, ".replit file exists but doesn't have a run command")
	}

	if rc.ParseError != nil {
		diag.add(KindInvalidRunConfig, types.RunConfigName, fmt.Sprintf("Error reading .replit file: %v", rc.ParseError))
	}

	if rc.MissingTarget != "" {
		diag.add(KindRunConfigStaleTarget, types.RunConfigName, fmt.Sprintf(
			".replit run command targets %s, which does not exist", rc.MissingTarget,
		))
	}
}

func (d *Diagnosis) add(kind Kind, subject, detail string) {
	d.Issues = append(d.Issues, Issue{Kind: kind, Subject: subject, Detail: detail})
}
