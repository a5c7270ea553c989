// Package runconfig reads, synthesizes and patches the .replit run configuration.
//
// The file is TOML. Only three things matter here: the `run` command (an array of tokens, or a
// single shell-like string), the [env] table, and the [nix] channel. A file that is not valid
// TOML is still searched for a run list with a pattern, so a slightly broken file can be launched.
package runconfig

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend/internal/types"
)

// DefaultChannel is the nix channel written into synthesized files.
const DefaultChannel = "stable-21_11"

//nolint:gochecknoglobals // compiled once
var (
	runToken   = regexp.MustCompile(`\brun\s*=`)
	runList    = regexp.MustCompile(`(?s)\brun\s*=\s*\[(.*?)\]`)
	runString  = regexp.MustCompile(`\brun\s*=\s*"([^"\n]*)"`)
	runKeyLine = regexp.MustCompile(`(?m)^[ \t]*run[ \t]*=[ \t]*`)

	interpreter = regexp.MustCompile(`^(python(3(\.\d+)?)?|node)$`)
)

// File is a decoded run configuration.
type File struct {
	// Raw is the file content as read.
	Raw string
	// Run is the ordered, quote-stripped run command. Empty when none was found.
	Run []string
	// Env is the [env] table, values unexpanded.
	Env map[string]string
	// Channel is the [nix] channel, if set.
	Channel string
	// ParseError is set when the content is not valid TOML. Run may still be populated.
	ParseError error
}

// Path returns the location of the run configuration under root.
func Path(root string) string {
	return filepath.Join(root, types.RunConfigName)
}

// Load reads and parses the run configuration under root. A missing file returns an error
// wrapping os.ErrNotExist.
func Load(root string) (*File, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return Parse(string(data)), nil
}

// HasRunToken reports whether text contains an assignment-like `run =` token.
func HasRunToken(text string) bool {
	return runToken.MatchString(text)
}

// Parse decodes run configuration text. It never fails; see File.ParseError.
func Parse(text string) *File {
	file := &File{Raw: text}

	var doc map[string]any
	if _, err := toml.Decode(text, &doc); err != nil {
		file.ParseError = err
		file.Run = scanRun(text)

		return file
	}

	file.Run = runFromTable(doc)

	if env, ok := doc["env"].(map[string]any); ok {
		file.Env = make(map[string]string, len(env))
		for key, value := range env {
			file.Env[key] = fmt.Sprint(value)
		}
	}

	if nix, ok := doc["nix"].(map[string]any); ok {
		file.Channel, _ = nix["channel"].(string)
	}

	return file
}

// runFromTable finds the run key at the top level, else in the first sub-table that has one,
// [interpreter] preferred.
func runFromTable(doc map[string]any) []string {
	if run, ok := doc["run"]; ok {
		return tokens(run)
	}

	tables := make([]string, 0, len(doc))
	for name, value := range doc {
		if _, ok := value.(map[string]any); ok {
			tables = append(tables, name)
		}
	}

	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i] == "interpreter" || (tables[j] != "interpreter" && tables[i] < tables[j])
	})

	for _, name := range tables {
		if run, ok := doc[name].(map[string]any)["run"]; ok {
			return tokens(run)
		}
	}

	return nil
}

func tokens(value any) []string {
	switch v := value.(type) {
	case string:
		return SplitCommand(v)
	case []any:
		out := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}

		return out
	default:
		return nil
	}
}

// scanRun extracts a run command from text that is not valid TOML.
func scanRun(text string) []string {
	if m := runList.FindStringSubmatch(text); m != nil {
		var out []string

		for item := range strings.SplitSeq(m[1], ",") {
			item = strings.Trim(strings.TrimSpace(item), `"'`)
			if item != "" {
				out = append(out, item)
			}
		}

		return out
	}

	if m := runString.FindStringSubmatch(text); m != nil {
		return SplitCommand(m[1])
	}

	return nil
}

// SplitCommand splits a shell-like command string into tokens, honouring single and double
// quotes. No expansion is performed.
func SplitCommand(command string) []string {
	var (
		out     []string
		current strings.Builder
		quote   rune
		inToken bool
	)

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n':
			if inToken {
				out = append(out, current.String())
				current.Reset()

				inToken = false
			}
		default:
			current.WriteRune(r)

			inToken = true
		}
	}

	if inToken {
		out = append(out, current.String())
	}

	return out
}

// Target returns the python or javascript file a plain interpreter command starts: the first
// such token after python, python3 or node. Anything that goes through a shell (another program
// first, an operator, a redirection or a substitution anywhere) has no target, since the file it
// names may be relative to a directory the command changes into.
func Target(run []string) (string, bool) {
	if len(run) < 2 || !interpreter.MatchString(path.Base(run[0])) {
		return "", false
	}

	for _, token := range run[1:] {
		if strings.ContainsAny(token, "&|;<>`$()") {
			return "", false
		}
	}

	for _, token := range run[1:] {
		if strings.HasSuffix(token, ".py") || strings.HasSuffix(token, ".js") {
			return token, true
		}
	}

	return "", false
}
