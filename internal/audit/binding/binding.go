package binding

import (
	"log/slog"

	"github.com/farcloser/replmend/internal/bindhost"
	"github.com/farcloser/replmend/internal/source"
	"github.com/farcloser/replmend/internal/types"
)

// Detect looks for server-start calls in files and records how each one binds. Files that
// cannot be read or decoded are counted and skipped.
func Detect(files []string, reader *source.Reader) *types.BindingDetection {
	result := &types.BindingDetection{}

	for _, rel := range files {
		text, err := reader.Text(rel)
		if err != nil {
			slog.Debug("binding.Detect", "skipped", rel, "error", err)

			result.FilesSkipped++

			continue
		}

		result.FilesScanned++

		calls := bindhost.Calls(text)
		if len(calls) == 0 {
			continue
		}

		file := types.FileBinding{Path: rel, Calls: make([]types.BindingCall, 0, len(calls))}
		for _, call := range calls {
			file.Calls = append(file.Calls, call.BindingCall)
		}

		result.CallsFound += len(calls)
		result.Files = append(result.Files, file)
	}

	return result
}
