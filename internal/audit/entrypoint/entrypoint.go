package entrypoint

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/farcloser/replmend/internal/types"
)

// Detect checks for the conventional entry point and lists the other top-level python files,
// the ones resembling "main" first.
func Detect(inv *types.Inventory) *types.EntryPointDetection {
	result := &types.EntryPointDetection{
		HasPythonSources: len(inv.PythonFiles) > 0,
		HasEntryPoint:    inv.HasRootFile(types.EntryPointName),
	}

	if result.HasEntryPoint {
		return result
	}

	var candidates []string

	for name := range inv.RootFiles {
		if strings.HasSuffix(name, ".py") {
			candidates = append(candidates, name)
		}
	}

	sort.Strings(candidates)

	result.Candidates = rank(candidates)

	return result
}

// rank orders names by fuzzy similarity to the entry point stem, unmatched names last in
// their original order.
func rank(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	stem := strings.TrimSuffix(types.EntryPointName, ".py")
	matches := fuzzy.Find(stem, names)

	out := make([]string, 0, len(names))
	seen := make(map[int]struct{}, len(matches))

	for _, match := range matches {
		out = append(out, match.Str)
		seen[match.Index] = struct{}{}
	}

	for i, name := range names {
		if _, ok := seen[i]; !ok {
			out = append(out, name)
		}
	}

	return out
}
