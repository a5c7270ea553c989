package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend/internal/manifest"
	"github.com/farcloser/replmend/internal/types"
)

func TestParsePackageJSON(t *testing.T) {
	t.Parallel()

	pkg, err := manifest.ParsePackageJSON([]byte(`{
		"name": "site",
		"scripts": {"start": "node index.js"},
		"dependencies": {"react": "^18.0.0", "express": "4.x"},
		"devDependencies": {"jest": "29"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "site", pkg.Name)
	assert.Equal(t, []string{"express", "react"}, pkg.DependencyNames())

	_, err = manifest.ParsePackageJSON([]byte(`{"dependencies": `))
	require.ErrorIs(t, err, fault.ErrInvalidJSON)
}

func TestParseRequirements(t *testing.T) {
	t.Parallel()

	text := `# web
Flask==2.0.1
django>=3.2 ; python_version > "3.6"
-r other.txt
--index-url https://example.invalid/simple

uvicorn[standard]~=0.15  # server
requests
`

	assert.Equal(t,
		[]string{"flask", "django", "uvicorn", "requests"},
		manifest.ParseRequirements(text),
	)
}

func TestParsePyProject(t *testing.T) {
	t.Parallel()

	names, err := manifest.ParsePyProject(`
[project]
name = "demo"
dependencies = ["FastAPI>=0.68", "uvicorn"]

[tool.poetry.dependencies]
python = "^3.10"
Flask = "^2.0"
django = { version = "^3.2" }
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"fastapi", "uvicorn", "django", "flask"}, names)

	_, err = manifest.ParsePyProject("[project\n")
	require.Error(t, err)
}

func TestRequirements(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "flask==2.0.1\n", manifest.Requirements(0))
	assert.Equal(t, "flask==2.0.1\ndjango==3.2.7\n", manifest.Requirements(types.FactDjango))
	assert.Equal(t,
		"flask==2.0.1\nfastapi==0.68.0\nuvicorn==0.15.0\n",
		manifest.Requirements(types.FactFastAPI|types.FactFlask),
	)
}
