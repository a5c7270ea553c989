package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type pyProject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParsePyProject returns the lowercased dependency names declared in pyproject.toml, from both
// the PEP 621 [project] table and [tool.poetry.dependencies].
func ParsePyProject(text string) ([]string, error) {
	var doc pyProject
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, fmt.Errorf("pyproject.toml: %w", err)
	}

	var names []string

	for _, spec := range doc.Project.Dependencies {
		if name := requirementName(strings.TrimSpace(spec)); name != "" {
			names = append(names, name)
		}
	}

	poetry := make([]string, 0, len(doc.Tool.Poetry.Dependencies))
	for name := range doc.Tool.Poetry.Dependencies {
		if name = strings.ToLower(name); name != "python" {
			poetry = append(poetry, name)
		}
	}

	sort.Strings(poetry)

	return append(names, poetry...), nil
}
