package runcfg

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/farcloser/replmend/internal/runconfig"
	"github.com/farcloser/replmend/internal/types"
)

// Detect inspects the run configuration under root: its presence, whether it has a run
// command, whether it parses, and whether the file its command names exists.
func Detect(root string) *types.RunConfigDetection {
	result := &types.RunConfigDetection{}

	file, err := runconfig.Load(root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			// Present but unreadable: report it as present without a usable command.
			result.Exists = true
			result.ParseError = err
		}

		slog.Debug("runcfg.Detect", "root", root, "error", err)

		return result
	}

	result.Exists = true
	result.HasRunCommand = runconfig.HasRunToken(file.Raw)
	result.ParseError = file.ParseError
	result.Command = file.Run

	if target, ok := runconfig.Target(file.Run); ok && !filepath.IsAbs(target) {
		if _, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(target))); errors.Is(statErr, os.ErrNotExist) {
			result.MissingTarget = target
		}
	}

	return result
}
