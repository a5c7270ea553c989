// Package inventory walks a project tree once and classifies what it finds.
package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend/internal/types"
)

var errNotDirectory = errors.New("not a directory")

// DefaultExcludes are the directory names never descended into.
//
//nolint:gochecknoglobals // configuration data, effectively const
var DefaultExcludes = []string{"node_modules", "__pycache__", ".git", "venv", ".venv"}

//nolint:gochecknoglobals // configuration data, effectively const
var manifestNames = map[string]types.ManifestKind{
	"package.json":     types.ManifestPackageJSON,
	"requirements.txt": types.ManifestRequirements,
	"pyproject.toml":   types.ManifestPyProject,
	"poetry.lock":      types.ManifestPoetryLock,
	"replit.nix":       types.ManifestReplitNix,
}

// Classify returns the language of a file name, by extension.
func Classify(name string) types.Language {
	switch {
	case strings.HasSuffix(name, ".py"):
		return types.LanguagePython
	case strings.HasSuffix(name, ".min.js"):
		return types.LanguageOther
	case strings.HasSuffix(name, ".js"):
		return types.LanguageJavaScript
	case strings.HasSuffix(name, ".html"):
		return types.LanguageHTML
	default:
		return types.LanguageOther
	}
}

// Scan walks root and returns its inventory, with Root made absolute. Directory names in DefaultExcludes and extra are
// skipped by exact match. Within a directory, files are handled before subdirectories, so a
// shallower manifest is visited first and wins. Unreadable subdirectories are skipped; only an
// unreadable root is an error.
func Scan(root string, extra ...string) (*types.Inventory, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	slog.Debug("inventory.Scan", "root", root, "stage", "start")

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errNotDirectory, root)
	}

	excluded := make(map[string]struct{}, len(DefaultExcludes)+len(extra))
	for _, name := range DefaultExcludes {
		excluded[name] = struct{}{}
	}

	for _, name := range extra {
		if name = strings.TrimSpace(name); name != "" {
			excluded[name] = struct{}{}
		}
	}

	inv := &types.Inventory{
		Root:      root,
		RootFiles: map[string]struct{}{},
		Manifests: map[types.ManifestKind]string{},
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	w := &walker{root: root, excluded: excluded, inv: inv}
	w.visit("", entries)

	slog.Debug("inventory.Scan", "root", root, "stage", "done",
		"python", len(inv.PythonFiles), "javascript", len(inv.JSFiles), "html", len(inv.HTMLFiles))

	return inv, nil
}

type walker struct {
	root     string
	excluded map[string]struct{}
	inv      *types.Inventory
}

func (w *walker) visit(rel string, entries []os.DirEntry) {
	var dirs []string

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			if _, skip := w.excluded[name]; !skip {
				dirs = append(dirs, name)
			}

			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		w.file(rel, name)
	}

	for _, name := range dirs {
		sub := path.Join(rel, name)

		children, err := os.ReadDir(filepath.Join(w.root, filepath.FromSlash(sub)))
		if err != nil {
			slog.Debug("inventory.Scan", "skipped", sub, "error", err)

			continue
		}

		w.visit(sub, children)
	}
}

func (w *walker) file(rel, name string) {
	p := path.Join(rel, name)

	if rel == "" {
		w.inv.RootFiles[name] = struct{}{}
	}

	switch Classify(name) {
	case types.LanguagePython:
		w.inv.PythonFiles = append(w.inv.PythonFiles, p)
	case types.LanguageJavaScript:
		w.inv.JSFiles = append(w.inv.JSFiles, p)
	case types.LanguageHTML:
		w.inv.HTMLFiles = append(w.inv.HTMLFiles, p)
	case types.LanguageOther:
	}

	if kind, ok := manifestNames[name]; ok {
		if _, seen := w.inv.Manifests[kind]; !seen {
			w.inv.Manifests[kind] = p
		}
	}
}
