// Package scaffold writes a minimal Flask entry point able to serve a project's markup.
package scaffold

import (
	"embed"
	"path"
	"path/filepath"
	"strings"

	"github.com/farcloser/replmend/internal/fsutil"
	"github.com/farcloser/replmend/internal/types"
)

//go:embed assets
var assets embed.FS

const indexDirPlaceholder = "{{INDEX_DIR}}"

// Written is one path created by a scaffold step.
type Written struct {
	Path        string
	Description string
}

type step struct {
	rel         string
	asset       string
	description string
}

//nolint:gochecknoglobals // configuration data, effectively const
var pageSteps = []step{
	{"templates/index.html", "assets/index.html", "Created a template index.html file"},
	{"static/css/style.css", "assets/style.css", "Created a CSS file"},
	{"static/js/script.js", "assets/script.js", "Created a JavaScript file"},
}

// EntryPoint renders main.py serving templates/index.html, else indexRel, else a placeholder.
// indexRel is the root-relative path of an existing index.html, or empty.
func EntryPoint(indexRel string) ([]byte, error) {
	tmpl, err := assets.ReadFile("assets/main.py.tmpl")
	if err != nil {
		return nil, err
	}

	dir := "."
	if indexRel != "" {
		dir = path.Dir(indexRel)
	}

	return []byte(strings.ReplaceAll(string(tmpl), indexDirPlaceholder, pyQuote.Replace(dir))), nil
}

// pyQuote escapes text for a single-quoted python string literal.
//
//nolint:gochecknoglobals // stateless
var pyQuote = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// Scaffold creates the entry point and its directories under root, and a starter page when
// the project has no index.html anywhere. Existing files are never overwritten. It returns
// what was actually written, which may be empty, along with the first error met.
func Scaffold(root string, inv *types.Inventory) ([]Written, error) {
	var written []Written

	indexRel, hasIndex := inv.IndexHTML()

	entry, err := EntryPoint(indexRel)
	if err != nil {
		return written, err
	}

	created, err := fsutil.CreateExclusive(filepath.Join(root, types.EntryPointName), entry)
	if err != nil {
		return written, err
	}

	if created {
		written = append(written, Written{types.EntryPointName, "Created a main.py file with Flask to serve your HTML content"})
	}

	for _, dir := range []string{"templates", "static"} {
		made, derr := fsutil.EnsureDir(filepath.Join(root, dir))
		if derr != nil {
			return written, derr
		}

		if made {
			written = append(written, Written{dir + "/", "Created the " + dir + " directory"})
		}
	}

	if hasIndex {
		return written, nil
	}

	for _, s := range pageSteps {
		data, rerr := assets.ReadFile(s.asset)
		if rerr != nil {
			return written, rerr
		}

		made, werr := fsutil.CreateExclusive(filepath.Join(root, filepath.FromSlash(s.rel)), data)
		if werr != nil {
			return written, werr
		}

		if made {
			written = append(written, Written{s.rel, s.description})
		}
	}

	return written, nil
}
