package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jmylchreest/ryijy/internal/security"
)

// WriteOutputs writes the files returned by a renderer below outDir and
// returns the written paths in name order. Names that would escape outDir
// are rejected before anything is written.
func WriteOutputs(outDir string, files map[string][]byte) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		if err := security.ValidateFilePath(name, outDir); err != nil {
			return nil, fmt.Errorf("plugin returned unsafe file name %q: %w", name, err)
		}
		names = append(names, name)
	}
	slices.Sort(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(outDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - output directory is user-facing
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil { // #nosec G306 - rendered patterns are not secret
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
