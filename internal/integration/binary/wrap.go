// Package binary locates external tools on the PATH.
package binary

import (
	"os/exec"
)

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// First returns the path of the first of names found on the PATH, and which name matched.
func First(names ...string) (string, string, bool) {
	for _, name := range names {
		if path, ok := Available(name); ok {
			return path, name, true
		}
	}

	return "", "", false
}
