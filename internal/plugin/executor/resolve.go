package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/ryijy/internal/security"
)

// PluginDirEnv names a directory searched for renderer plugins by name.
const PluginDirEnv = "RYIJY_PLUGIN_DIR"

// BinaryPrefix is prepended to bare plugin names when searching PATH.
const BinaryPrefix = "ryijy-"

// ErrPluginNotFound is returned when no candidate for a plugin name exists.
var ErrPluginNotFound = errors.New("plugin not found")

// ResolvePluginPath turns a plugin reference into an executable path.
//
// A reference containing a path separator is used as-is. A bare name is
// looked up as <name> and ryijy-<name> in $RYIJY_PLUGIN_DIR, then as
// ryijy-<name> on PATH.
func ResolvePluginPath(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("plugin reference cannot be empty")
	}

	if strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') {
		if err := checkExecutable(ref); err != nil {
			return "", err
		}
		return ref, nil
	}

	if dir := os.Getenv(PluginDirEnv); dir != "" {
		for _, name := range []string{ref, BinaryPrefix + strings.TrimPrefix(ref, BinaryPrefix)} {
			candidate := filepath.Join(dir, name)
			if err := security.ValidatePluginPath(candidate, dir); err != nil {
				return "", err
			}
			if checkExecutable(candidate) == nil {
				return candidate, nil
			}
		}
	}

	if path, err := exec.LookPath(BinaryPrefix + strings.TrimPrefix(ref, BinaryPrefix)); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPluginNotFound, ref)
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPluginNotFound, path)
		}
		return fmt.Errorf("failed to stat plugin: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("plugin path is a directory: %s", path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("plugin is not executable: %s", path)
	}
	return nil
}
