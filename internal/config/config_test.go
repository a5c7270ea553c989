package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/replmend"
	"github.com/farcloser/replmend/internal/config"
)

func TestLoadAndApply(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "replmend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`grace: 5s
skip_install: true
exclude:
  - build
  - dist
checks: binding,run-config
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	opts := replmend.DefaultOptions()
	require.NoError(t, cfg.Apply(&opts))

	assert.Equal(t, 5*time.Second, opts.Grace)
	assert.True(t, opts.SkipInstall)
	assert.False(t, opts.SkipLaunch)
	assert.Equal(t, []string{"build", "dist"}, opts.ExcludeDirs)
	assert.Equal(t, replmend.CheckBinding|replmend.CheckRunConfig, opts.Checks)
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	opts := replmend.DefaultOptions()
	require.NoError(t, cfg.Apply(&opts))
	assert.Equal(t, replmend.DefaultOptions(), opts)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grace: [\n"), 0o644))

	_, err = config.Load(path)
	require.Error(t, err)

	cfg := &config.Config{Grace: "soon"}
	opts := replmend.DefaultOptions()
	require.Error(t, cfg.Apply(&opts))

	cfg = &config.Config{Checks: "everything"}
	require.Error(t, cfg.Apply(&opts))
}
