// Package classify infers which frameworks and ecosystems a project uses.
package classify

import (
	"log/slog"
	"regexp"

	"github.com/farcloser/replmend/internal/manifest"
	"github.com/farcloser/replmend/internal/source"
	"github.com/farcloser/replmend/internal/types"
)

// frontendDeps maps package.json dependency names to facts.
//
//nolint:gochecknoglobals // lookup table, effectively const
var frontendDeps = map[string]types.Fact{
	"react":     types.FactReact,
	"react-dom": types.FactReact,
	"next":      types.FactReact,
}

// pythonDeps maps declared python distributions to facts.
//
//nolint:gochecknoglobals // lookup table, effectively const
var pythonDeps = map[string]types.Fact{
	"flask":   types.FactFlask,
	"django":  types.FactDjango,
	"fastapi": types.FactFastAPI,
}

type importPattern struct {
	fact    types.Fact
	pattern *regexp.Regexp
}

//nolint:gochecknoglobals // compiled once
var importPatterns = []importPattern{
	{types.FactFlask, regexp.MustCompile(`import\s+flask|from\s+flask\s+import`)},
	{types.FactDjango, regexp.MustCompile(`import\s+django|from\s+django\s+import`)},
	{types.FactFastAPI, regexp.MustCompile(`import\s+fastapi|from\s+fastapi\s+import`)},
}

// Classify derives ecosystem facts from the inventory. It never writes and never fails: an
// unparsable package.json is reported through Classification.ManifestError and treated as
// declaring nothing, unreadable sources are skipped.
func Classify(inv *types.Inventory, reader *source.Reader) types.Classification {
	var result types.Classification

	if rel, ok := inv.Manifest(types.ManifestPackageJSON); ok {
		classifyPackageJSON(rel, reader, &result)
	}

	classifyPythonManifests(inv, reader, &result)

	for _, rel := range inv.PythonFiles {
		text, err := reader.Text(rel)
		if err != nil {
			slog.Debug("classify.Classify", "skipped", rel, "error", err)

			continue
		}

		for _, ip := range importPatterns {
			if !result.Facts.Has(ip.fact) && ip.pattern.MatchString(text) {
				result.Facts |= ip.fact

				slog.Info("detected framework", "framework", ip.fact, "file", rel)
			}
		}
	}

	return result
}

func classifyPackageJSON(rel string, reader *source.Reader, result *types.Classification) {
	text, err := reader.Text(rel)
	if err != nil {
		result.ManifestError = err

		return
	}

	pkg, err := manifest.ParsePackageJSON([]byte(text))
	if err != nil {
		slog.Error("error parsing package.json", "file", rel, "error", err)

		result.ManifestError = err

		return
	}

	result.Dependencies = pkg.DependencyNames()

	for _, dep := range result.Dependencies {
		if fact, ok := frontendDeps[dep]; ok && !result.Facts.Has(fact) {
			result.Facts |= fact

			slog.Info("detected framework", "framework", fact, "dependency", dep)
		}
	}

	if len(result.Dependencies) > 0 {
		result.Facts |= types.FactNode

		slog.Info("detected Node.js application", "file", rel)
	}
}

func classifyPythonManifests(inv *types.Inventory, reader *source.Reader, result *types.Classification) {
	if rel, ok := inv.Manifest(types.ManifestRequirements); ok {
		if text, err := reader.Text(rel); err == nil {
			result.PythonDependencies = append(result.PythonDependencies, manifest.ParseRequirements(text)...)
		}
	}

	if rel, ok := inv.Manifest(types.ManifestPyProject); ok {
		if text, err := reader.Text(rel); err == nil {
			names, perr := manifest.ParsePyProject(text)
			if perr != nil {
				slog.Warn("ignoring unparsable pyproject.toml", "file", rel, "error", perr)
			}

			result.PythonDependencies = append(result.PythonDependencies, names...)
		}
	}

	for _, dep := range result.PythonDependencies {
		if fact, ok := pythonDeps[dep]; ok {
			result.Facts |= fact
		}
	}
}
