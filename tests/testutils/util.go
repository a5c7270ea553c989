// Package testutils provides test infrastructure for replmend integration tests.
package testutils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the replmend binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "replmend")

	return agar.Setup(binaryPath)
}

// Project writes files (slash-separated relative path -> content) into a fresh temporary
// directory and returns it. Remove it with os.RemoveAll once done.
func Project(files map[string]string) string {
	dir, err := os.MkdirTemp("", "replmend-test-")
	if err != nil {
		panic(err)
	}

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))

		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			panic(err)
		}

		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			panic(err)
		}
	}

	return dir
}
