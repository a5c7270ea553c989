package manifest

import (
	"strings"

	"github.com/farcloser/replmend/internal/types"
)

// Baseline pins written into a synthesized requirements.txt.
const (
	FlaskRequirement   = "flask==2.0.1"
	DjangoRequirement  = "django==3.2.7"
	FastAPIRequirement = "fastapi==0.68.0"
	UvicornRequirement = "uvicorn==0.15.0"
)

// ParseRequirements returns the lowercased package names declared in requirements.txt text.
// Options (-r, -e, --index-url...), comments and blank lines are ignored.
func ParseRequirements(text string) []string {
	var names []string

	for line := range strings.Lines(text) {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}

		if name := requirementName(line); name != "" {
			names = append(names, name)
		}
	}

	return names
}

// requirementName extracts the distribution name of a PEP 508 requirement.
func requirementName(spec string) string {
	end := strings.IndexAny(spec, "=<>!~;[ @(\t")
	if end >= 0 {
		spec = spec[:end]
	}

	return strings.ToLower(strings.TrimSpace(spec))
}

// Requirements returns the content of a synthesized requirements.txt for the given facts.
func Requirements(facts types.Fact) string {
	lines := []string{FlaskRequirement}

	if facts.Has(types.FactDjango) {
		lines = append(lines, DjangoRequirement)
	}

	if facts.Has(types.FactFastAPI) {
		lines = append(lines, FastAPIRequirement, UvicornRequirement)
	}

	return strings.Join(lines, "\n") + "\n"
}
