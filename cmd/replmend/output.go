//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/replmend"
	"github.com/farcloser/replmend/internal/output"
)

//nolint:gochecknoglobals // configuration data, effectively const
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

const consoleFormat = "console"

func outputDiagnosis(root string, diag *replmend.Diagnosis, formatName string, debug bool) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.DiagnosisToMap(diag)
	} else {
		meta = map[string]any{
			"summary": fmt.Sprintf("%d issues found (framework: %s)", len(diag.Issues), diag.Classification.Facts),
		}

		if len(diag.Issues) > 0 {
			meta["issues"] = issueLines(diag.Issues)
		}
	}

	if err = formatter.PrintAll([]*format.Data{{Object: root, Meta: meta}}, os.Stdout); err != nil {
		return err
	}

	if formatName == consoleFormat {
		if len(diag.Issues) == 0 {
			_, _ = successColor.Fprintln(os.Stdout, "No issues detected")
		} else {
			_, _ = warningColor.Fprintf(os.Stdout, "%d issues detected, run fix to repair\n", len(diag.Issues))
		}
	}

	return nil
}

func outputResult(root string, result *replmend.Result, formatName string, debug bool) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.ResultToMap(result)
	} else {
		meta = buildFriendlyOutput(result)
	}

	if err = formatter.PrintAll([]*format.Data{{Object: root, Meta: meta}}, os.Stdout); err != nil {
		return err
	}

	if formatName == consoleFormat {
		printVerdict(result)
	}

	return nil
}

// buildFriendlyOutput creates a user-friendly summary of a run.
func buildFriendlyOutput(result *replmend.Result) map[string]any {
	meta := map[string]any{
		"summary": fmt.Sprintf("%s (%d issues, %d fixes)", verdict(result), len(result.Issues), len(result.Fixes)),
	}

	if len(result.Issues) > 0 {
		meta["issues"] = issueLines(result.Issues)
	}

	if len(result.Fixes) > 0 {
		fixes := make([]any, 0, len(result.Fixes))
		for _, fix := range result.Fixes {
			fixes = append(fixes, fix.Description)
		}

		meta["fixes"] = fixes
	}

	if unresolved := result.Unresolved(); len(unresolved) > 0 && len(result.Fixes) > 0 {
		meta["unresolved"] = issueLines(unresolved)
	}

	for _, install := range result.Installs {
		status := "ok"
		if install.Err != nil {
			status = install.Err.Error()
		}

		meta["install_"+install.Ecosystem] = status
	}

	if l := result.Launch; l != nil {
		switch {
		case l.Running:
			meta["launch"] = fmt.Sprintf("running (pid %d)", l.PID)
		case l.Started:
			meta["launch"] = fmt.Sprintf("exited with code %d", l.ExitCode)
		default:
			meta["launch"] = fmt.Sprintf("not started: %v", l.Err)
		}
	}

	return meta
}

func issueLines(issues []replmend.Issue) []any {
	lines := make([]any, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("[%s] %s", issue.Kind, issue.Detail))
	}

	return lines
}

// verdict is the one-line conclusion of a run.
func verdict(result *replmend.Result) string {
	switch result.Outcome {
	case replmend.OutcomeNoIssues:
		if result.Launch != nil && !result.Launch.Running {
			return "No issues detected, but the application is not running"
		}

		return "No issues detected"
	case replmend.OutcomeFixedAndVerified:
		return "All issues fixed, the application is running"
	case replmend.OutcomeFixedButUnverified:
		return "Fixes applied, but the application could not be verified"
	case replmend.OutcomeUnfixable:
		return "Issues detected that could not be fixed automatically, manual intervention required"
	}

	return result.Outcome.String()
}

func printVerdict(result *replmend.Result) {
	c := errorColor

	switch {
	case result.Healthy():
		c = successColor
	case result.Outcome == replmend.OutcomeFixedButUnverified:
		c = warningColor
	}

	_, _ = c.Fprintln(os.Stdout, verdict(result))
}
