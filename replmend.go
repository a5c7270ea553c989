package replmend

import (
	"fmt"
	"strings"
)

/*
Usage:

result, err := replmend.Run(ctx, "/home/runner/project", replmend.DefaultOptions())
if result.Outcome == replmend.OutcomeFixedAndVerified {
    fmt.Println("Fixed!")
}

// Diagnose only, nothing is written
diag, err := replmend.Diagnose(root, replmend.DefaultOptions())
for _, issue := range diag.Issues {
    fmt.Printf("[%s] %s\n", issue.Kind, issue.Detail)
}

// Binding and run configuration only
opts := replmend.DefaultOptions()
opts.Checks = replmend.CheckBinding | replmend.CheckRunConfig
result, err := replmend.Run(ctx, root, opts)

// Inspect raw detections
if diag.Binding != nil {
    fmt.Printf("%d server-start calls\n", diag.Binding.CallsFound)
}

*/

// Kind identifies a detected defect.
type Kind int

const (
	KindInvalidManifest Kind = 1 << iota
	KindWrongBindHost
	KindMissingBindHost
	KindNoBindingFound
	KindNoSourceFiles
	KindRunConfigMissing
	KindRunConfigMissingCommand
	KindInvalidRunConfig
	KindRunConfigStaleTarget
	KindMissingEntryPoint
	KindMissingIndexHTML
	KindMissingManifest
)

func (k Kind) String() string {
	switch k {
	case KindInvalidManifest:
		return "invalid-manifest"
	case KindWrongBindHost:
		return "wrong-bind-host"
	case KindMissingBindHost:
		return "missing-bind-host"
	case KindNoBindingFound:
		return "no-binding-found"
	case KindNoSourceFiles:
		return "no-source-files"
	case KindRunConfigMissing:
		return "run-config-missing"
	case KindRunConfigMissingCommand:
		return "run-config-missing-command"
	case KindInvalidRunConfig:
		return "invalid-run-config"
	case KindRunConfigStaleTarget:
		return "run-config-stale-target"
	case KindMissingEntryPoint:
		return "missing-entry-point"
	case KindMissingIndexHTML:
		return "missing-index-html"
	case KindMissingManifest:
		return "missing-manifest"
	}

	return "unknown"
}

// Check selects a group of detectors.
type Check int

const (
	CheckBinding Check = 1 << iota
	CheckSources
	CheckRunConfig
	CheckEntryPoint
	CheckStaticSite
	CheckManifest

	// Presets.
	ChecksAll = CheckBinding | CheckSources | CheckRunConfig | CheckEntryPoint | CheckStaticSite | CheckManifest
)

func (c Check) String() string {
	switch c {
	case CheckBinding:
		return "binding"
	case CheckSources:
		return "sources"
	case CheckRunConfig:
		return "run-config"
	case CheckEntryPoint:
		return "entry-point"
	case CheckStaticSite:
		return "static-site"
	case CheckManifest:
		return "manifest"
	}

	return "unknown"
}

//nolint:gochecknoglobals // configuration data, effectively const
var checkNames = map[string]Check{
	"binding":     CheckBinding,
	"sources":     CheckSources,
	"run-config":  CheckRunConfig,
	"entry-point": CheckEntryPoint,
	"static-site": CheckStaticSite,
	"manifest":    CheckManifest,
	// Presets.
	"all": ChecksAll,
}

// ParseChecks converts a comma-separated list of check names or presets. An empty list
// selects every check.
func ParseChecks(raw string) (Check, error) {
	var result Check

	for name := range strings.SplitSeq(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		check, ok := checkNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown check %q", name)
		}

		result |= check
	}

	if result == 0 {
		return ChecksAll, nil
	}

	return result, nil
}

// Issue is a detected defect.
type Issue struct {
	Kind Kind
	// Subject is the root-relative file the issue is about, if any.
	Subject string
	// Detail is a human-readable description.
	Detail string
}

// Fix records a write that succeeded.
type Fix struct {
	Kind        Kind
	Description string
	Paths       []string
}

// Outcome is the terminal classification of a run.
type Outcome int

const (
	OutcomeNoIssues Outcome = iota
	OutcomeFixedAndVerified
	OutcomeFixedButUnverified
	OutcomeUnfixable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoIssues:
		return "no issues"
	case OutcomeFixedAndVerified:
		return "fixed and verified"
	case OutcomeFixedButUnverified:
		return "fixed but unverified"
	case OutcomeUnfixable:
		return "manual intervention required"
	}

	return "unknown"
}
