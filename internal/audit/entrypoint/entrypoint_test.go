package entrypoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/replmend/internal/audit/entrypoint"
	"github.com/farcloser/replmend/internal/inventory"
	"github.com/farcloser/replmend/internal/types"
)

func tree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func scan(t *testing.T, root string) *types.Inventory {
	t.Helper()

	inv, err := inventory.Scan(root)
	require.NoError(t, err)

	return inv
}

func TestEntryPointDetect(t *testing.T) {
	t.Parallel()

	inv := scan(t, tree(t, map[string]string{
		"server.py":   "",
		"main_app.py": "",
		"lib/main.py": "",
	}))

	result := entrypoint.Detect(inv)
	assert.True(t, result.HasPythonSources)
	assert.False(t, result.HasEntryPoint)
	assert.Equal(t, []string{"main_app.py", "server.py"}, result.Candidates)

	result = entrypoint.Detect(scan(t, tree(t, map[string]string{"main.py": ""})))
	assert.True(t, result.HasEntryPoint)
	assert.Empty(t, result.Candidates)
}
