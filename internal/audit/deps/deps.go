package deps

import "github.com/farcloser/replmend/internal/types"

// Detect checks that python sources come with a dependency manifest. A requirements.txt,
// pyproject.toml or poetry.lock anywhere in the tree counts.
func Detect(inv *types.Inventory) *types.ManifestDetection {
	result := &types.ManifestDetection{HasPythonSources: len(inv.PythonFiles) > 0}

	for _, kind := range []types.ManifestKind{
		types.ManifestRequirements,
		types.ManifestPyProject,
		types.ManifestPoetryLock,
	} {
		if _, ok := inv.Manifest(kind); ok {
			result.HasManifest = true

			break
		}
	}

	return result
}
