package runconfig

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type nixTable struct {
	Channel string `toml:"channel"`
}

type document struct {
	Run []string          `toml:"run"`
	Env map[string]string `toml:"env,omitempty"`
	Nix nixTable          `toml:"nix"`
}

// PythonCommand is the run command for a python entry file.
func PythonCommand(target string) []string {
	return []string{"python", target}
}

// NodeCommand is the run command for a node project.
func NodeCommand() []string {
	return []string{"npm", "start"}
}

// Synthesize renders a complete run configuration.
func Synthesize(run []string, env map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	if err := enc.Encode(document{Run: run, Env: env, Nix: nixTable{Channel: DefaultChannel}}); err != nil {
		return nil, fmt.Errorf("encoding run configuration: %w", err)
	}

	return buf.Bytes(), nil
}

// PythonEnv returns the [env] table written alongside a python run command.
func PythonEnv(root string) map[string]string {
	return map[string]string{"PYTHONPATH": "${PYTHONPATH}:" + root}
}

// RewriteRun replaces the value of the first line-leading `run =` assignment with run, leaving
// every other byte of text as is. It reports false when no such assignment could be delimited.
func RewriteRun(text string, run []string) (string, bool) {
	loc := runKeyLine.FindStringIndex(text)
	if loc == nil {
		return text, false
	}

	start := loc[1]

	end, ok := valueEnd(text, start)
	if !ok {
		return text, false
	}

	return text[:start] + FormatList(run) + text[end:], true
}

// FormatList renders tokens as a TOML inline array of basic strings.
func FormatList(run []string) string {
	quoted := make([]string, len(run))
	for i, token := range run {
		quoted[i] = strconv.Quote(token)
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

// valueEnd returns the index right after the value starting at start: a bracketed array or a
// quoted string.
func valueEnd(text string, start int) (int, bool) {
	if start >= len(text) {
		return 0, false
	}

	switch text[start] {
	case '[':
		depth := 0

		for i := start; i < len(text); i++ {
			switch text[i] {
			case '"', '\'':
				end := closingQuote(text, i)
				if end < 0 {
					return 0, false
				}

				i = end
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return i + 1, true
				}
			}
		}
	case '"', '\'':
		if end := closingQuote(text, start); end >= 0 {
			return end + 1, true
		}
	}

	return 0, false
}

func closingQuote(text string, i int) int {
	quote := text[i]

	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if quote == '"' {
				j++
			}
		case quote:
			return j
		case '\n':
			return -1
		}
	}

	return -1
}
