package runcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/replmend/internal/audit/runcfg"
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

func TestRunConfigDetect(t *testing.T) {
	t.Parallel()

	result := runcfg.Detect(t.TempDir())
	assert.False(t, result.Exists)

	root := tree(t, map[string]string{".replit": "language = \"python3\"\n"})
	result = runcfg.Detect(root)
	assert.True(t, result.Exists)
	assert.False(t, result.HasRunCommand)

	root = tree(t, map[string]string{".replit": "run = [\"python\", \"gone.py\"]\n"})
	result = runcfg.Detect(root)
	assert.True(t, result.HasRunCommand)
	assert.Equal(t, "gone.py", result.MissingTarget)

	root = tree(t, map[string]string{".replit": "run = [\"python\", \"app.py\"]\n", "app.py": ""})
	result = runcfg.Detect(root)
	assert.Empty(t, result.MissingTarget)
	assert.Equal(t, []string{"python", "app.py"}, result.Command)

	root = tree(t, map[string]string{
		".replit":         "run = \"cd server && node index.js\"\n",
		"server/index.js": "",
	})
	result = runcfg.Detect(root)
	assert.True(t, result.HasRunCommand)
	assert.Empty(t, result.MissingTarget)

	root = tree(t, map[string]string{".replit": "run = [\"python\", \"app.py\"\n[[["})
	result = runcfg.Detect(root)
	assert.Error(t, result.ParseError)
}
