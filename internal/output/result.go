// Package output provides shared result serialization for replmend JSON output.
package output

import (
	"github.com/farcloser/replmend"
	"github.com/farcloser/replmend/internal/types"
)

// DiagnosisToMap converts a diagnosis into the canonical map structure used for JSON output.
func DiagnosisToMap(diag *replmend.Diagnosis) map[string]any {
	inv := diag.Inventory

	meta := map[string]any{
		"summary": map[string]any{
			"issue_count": len(diag.Issues),
			"facts":       toList(diag.Classification.Facts.Names()),
		},
		"inventory": map[string]any{
			"python":     toList(inv.PythonFiles),
			"javascript": toList(inv.JSFiles),
			"html":       toList(inv.HTMLFiles),
			"manifests":  manifestsToMap(inv),
		},
	}

	meta["issues"] = IssuesToList(diag.Issues)

	if deps := diag.Classification.Dependencies; len(deps) > 0 {
		meta["dependencies"] = toList(deps)
	}

	if deps := diag.Classification.PythonDependencies; len(deps) > 0 {
		meta["python_dependencies"] = toList(deps)
	}

	// Raw detections.
	if r := diag.Binding; r != nil {
		meta["binding"] = BindingToMap(r)
	}

	if r := diag.RunConfig; r != nil {
		rc := map[string]any{
			"exists":          r.Exists,
			"has_run_command": r.HasRunCommand,
			"command":         toList(r.Command),
		}

		if r.ParseError != nil {
			rc["parse_error"] = r.ParseError.Error()
		}

		if r.MissingTarget != "" {
			rc["missing_target"] = r.MissingTarget
		}

		meta["run_config"] = rc
	}

	if r := diag.EntryPoint; r != nil {
		meta["entry_point"] = map[string]any{
			"has_python_sources": r.HasPythonSources,
			"has_entry_point":    r.HasEntryPoint,
			"candidates":         toList(r.Candidates),
		}
	}

	if r := diag.StaticSite; r != nil {
		meta["static_site"] = map[string]any{
			"applicable": r.Applicable,
			"html_files": r.HTMLFiles,
			"has_index":  r.HasIndex,
		}
	}

	if r := diag.Manifest; r != nil {
		meta["manifest"] = map[string]any{
			"has_python_sources": r.HasPythonSources,
			"has_manifest":       r.HasManifest,
		}
	}

	return meta
}

// ResultToMap converts a full run result into the canonical map structure. It extends
// DiagnosisToMap with fixes, installs, launch and outcome.
func ResultToMap(result *replmend.Result) map[string]any {
	meta := DiagnosisToMap(result.Diagnosis)

	summary, _ := meta["summary"].(map[string]any)
	summary["outcome"] = result.Outcome.String()
	summary["fix_count"] = len(result.Fixes)
	summary["healthy"] = result.Healthy()

	fixes := make([]any, 0, len(result.Fixes))
	for _, fix := range result.Fixes {
		fixes = append(fixes, map[string]any{
			"kind":        fix.Kind.String(),
			"description": fix.Description,
			"paths":       toList(fix.Paths),
		})
	}

	meta["fixes"] = fixes
	meta["unresolved"] = IssuesToList(result.Unresolved())

	if len(result.Installs) > 0 {
		installs := make([]any, 0, len(result.Installs))
		for _, install := range result.Installs {
			installs = append(installs, map[string]any{
				"ecosystem": install.Ecosystem,
				"manifest":  install.Manifest,
				"ok":        install.Err == nil,
				"error":     errString(install.Err),
			})
		}

		meta["installs"] = installs
	}

	if l := result.Launch; l != nil {
		meta["launch"] = map[string]any{
			"command":   toList(l.Command),
			"started":   l.Started,
			"running":   l.Running,
			"exit_code": l.ExitCode,
			"pid":       l.PID,
			"error":     errString(l.Err),
		}
	}

	return meta
}

// IssuesToList converts issues into serializable maps, preserving order.
func IssuesToList(issues []replmend.Issue) []any {
	out := make([]any, 0, len(issues))
	for _, issue := range issues {
		entry := map[string]any{
			"kind":   issue.Kind.String(),
			"detail": issue.Detail,
		}

		if issue.Subject != "" {
			entry["subject"] = issue.Subject
		}

		out = append(out, entry)
	}

	return out
}

// BindingToMap converts binding detection results.
func BindingToMap(r *types.BindingDetection) map[string]any {
	files := make([]any, 0, len(r.Files))

	for _, file := range r.Files {
		calls := make([]any, 0, len(file.Calls))
		for _, call := range file.Calls {
			calls = append(calls, map[string]any{
				"callee": call.Callee,
				"host":   call.Host,
				"port":   call.Port,
				"state":  call.State.String(),
				"offset": call.Offset,
			})
		}

		files = append(files, map[string]any{
			"path":  file.Path,
			"calls": calls,
		})
	}

	return map[string]any{
		"files":         files,
		"files_scanned": r.FilesScanned,
		"files_skipped": r.FilesSkipped,
		"calls_found":   r.CallsFound,
	}
}

func manifestsToMap(inv *types.Inventory) map[string]any {
	out := make(map[string]any, len(inv.Manifests))
	for kind, path := range inv.Manifests {
		out[kind.String()] = path
	}

	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

func toList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}

	return out
}
