// Package manifest reads and writes dependency manifests.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/farcloser/primordium/fault"
)

// PackageJSON holds the parts of a package.json the fixer cares about.
type PackageJSON struct {
	Name            string         `json:"name,omitempty"`
	Scripts         map[string]any `json:"scripts,omitempty"`
	Dependencies    map[string]any `json:"dependencies,omitempty"`
	DevDependencies map[string]any `json:"devDependencies,omitempty"` //nolint:tagliatelle // npm field name
}

// ParsePackageJSON decodes package.json content.
func ParsePackageJSON(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &pkg, nil
}

// DependencyNames returns the sorted names of the runtime dependencies.
func (p *PackageJSON) DependencyNames() []string {
	names := make([]string, 0, len(p.Dependencies))
	for name := range p.Dependencies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
