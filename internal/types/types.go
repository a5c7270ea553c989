package types

import "strings"

// Language classifies a source file by extension.
type Language int

const (
	LanguageOther Language = iota
	LanguagePython
	LanguageJavaScript
	LanguageHTML
)

func (l Language) String() string {
	switch l {
	case LanguagePython:
		return "python"
	case LanguageJavaScript:
		return "javascript"
	case LanguageHTML:
		return "html"
	case LanguageOther:
		return "other"
	}

	return "unknown"
}

// ManifestKind identifies one of the recognized manifest or config file names.
type ManifestKind int

const (
	ManifestPackageJSON ManifestKind = iota
	ManifestRequirements
	ManifestPyProject
	ManifestPoetryLock
	ManifestReplitNix
)

func (m ManifestKind) String() string {
	switch m {
	case ManifestPackageJSON:
		return "package.json"
	case ManifestRequirements:
		return "requirements.txt"
	case ManifestPyProject:
		return "pyproject.toml"
	case ManifestPoetryLock:
		return "poetry.lock"
	case ManifestReplitNix:
		return "replit.nix"
	}

	return "unknown"
}

// Well known file names.
const (
	RunConfigName  = ".replit"
	EntryPointName = "main.py"
	IndexHTMLName  = "index.html"
	DotEnvName     = ".env"

	// UniversalHost is the bind address that makes a server reachable from outside the sandbox.
	UniversalHost = "0.0.0.0"
)

// Inventory is the immutable result of a single walk of the project tree.
// All paths are root-relative and slash separated, in walk order.
type Inventory struct {
	Root        string
	PythonFiles []string
	JSFiles     []string
	HTMLFiles   []string
	// RootFiles holds the base names of regular files sitting directly under Root.
	RootFiles map[string]struct{}
	// Manifests holds at most one path per kind. The first visited path wins.
	Manifests map[ManifestKind]string
}

// HasRootFile reports whether name exists directly under the root.
func (inv *Inventory) HasRootFile(name string) bool {
	_, ok := inv.RootFiles[name]

	return ok
}

// Manifest returns the recorded path for kind, if any.
func (inv *Inventory) Manifest(kind ManifestKind) (string, bool) {
	p, ok := inv.Manifests[kind]

	return p, ok
}

// HasSources reports whether any python or javascript file was found.
func (inv *Inventory) HasSources() bool {
	return len(inv.PythonFiles) > 0 || len(inv.JSFiles) > 0
}

// IndexHTML returns the first markup file whose base name is exactly index.html.
func (inv *Inventory) IndexHTML() (string, bool) {
	for _, p := range inv.HTMLFiles {
		if baseName(p) == IndexHTMLName {
			return p, true
		}
	}

	return "", false
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}

	return p
}

// Fact is a set of ecosystem assertions about the project.
type Fact int

const (
	FactFlask Fact = 1 << iota
	FactDjango
	FactFastAPI
	FactNode
	FactReact

	// Presets.
	FactsServer    = FactFlask | FactFastAPI
	FactsPythonWeb = FactFlask | FactDjango | FactFastAPI
)

// Has reports whether every fact in other is set.
func (f Fact) Has(other Fact) bool {
	return f&other == other
}

// Any reports whether at least one fact in other is set.
func (f Fact) Any(other Fact) bool {
	return f&other != 0
}

// Names returns the individual facts set, in declaration order.
func (f Fact) Names() []string {
	var out []string

	for _, single := range []Fact{FactFlask, FactDjango, FactFastAPI, FactNode, FactReact} {
		if f&single != 0 {
			out = append(out, single.String())
		}
	}

	return out
}

func (f Fact) String() string {
	switch f {
	case FactFlask:
		return "flask"
	case FactDjango:
		return "django"
	case FactFastAPI:
		return "fastapi"
	case FactNode:
		return "node"
	case FactReact:
		return "react"
	}

	if names := f.Names(); len(names) > 0 {
		return strings.Join(names, ",")
	}

	return "none"
}

// Classification holds the ecosystem facts derived from an inventory.
type Classification struct {
	Facts Fact
	// Dependencies are the names declared in package.json "dependencies".
	Dependencies []string
	// PythonDependencies are the names declared in requirements.txt or pyproject.toml.
	PythonDependencies []string
	// ManifestError is set when package.json exists but could not be parsed.
	ManifestError error
}

/*
Binding Detection Interpretation

| Call found | host= argument       | Result           |
|------------|----------------------|------------------|
| no         | -                    | NoBindingFound   |
| yes        | literal 0.0.0.0      | OK               |
| yes        | other literal        | WrongBindHost    |
| yes        | absent, port given   | MissingBindHost  |
| yes        | absent, no port      | OK (defaults)    |
| yes        | non-literal (HOST)   | OK (not ours)    |

A file with a wrong host is not also reported as missing one. When a file is patched, every
call without a host gets one, including those relying on the defaults.
*/

// BindState is the verdict for a single server-start call.
type BindState int

const (
	BindOK BindState = iota
	BindWrongHost
	BindMissingHost
	BindUnknownHost
	// BindDefaultAddress is a call with neither host nor port.
	BindDefaultAddress
)

func (s BindState) String() string {
	switch s {
	case BindOK:
		return "ok"
	case BindWrongHost:
		return "wrong-host"
	case BindMissingHost:
		return "missing-host"
	case BindUnknownHost:
		return "unknown-host"
	case BindDefaultAddress:
		return "default-address"
	}

	return "unknown"
}

// BindingCall is one server-start call found in a file.
type BindingCall struct {
	Callee string // e.g. app.run
	Host   string // literal host value, empty when absent or non-literal
	Port   string // literal port value, empty when absent
	State  BindState
	Offset int // byte offset of the call in the file
}

// FileBinding contains the calls found in one file.
type FileBinding struct {
	Path  string
	Calls []BindingCall
}

// BindingDetection contains binding detection results.
type BindingDetection struct {
	Files        []FileBinding
	FilesScanned int
	FilesSkipped int // decode or read failures
	CallsFound   int
}

// EntryPointDetection contains entry point results.
type EntryPointDetection struct {
	HasPythonSources bool
	HasEntryPoint    bool
	// Candidates are top-level python files, best match for "main" first.
	Candidates []string
}

// RunConfigDetection contains run-configuration results.
type RunConfigDetection struct {
	Exists        bool
	HasRunCommand bool
	ParseError    error
	Command       []string
	// MissingTarget is the file named by the run command when it does not exist.
	MissingTarget string
}

// StaticSiteDetection contains static site results.
type StaticSiteDetection struct {
	Applicable bool // no server framework and no node
	HTMLFiles  int
	HasIndex   bool
}

// ManifestDetection contains python manifest results.
type ManifestDetection struct {
	HasPythonSources bool
	HasManifest      bool
}
