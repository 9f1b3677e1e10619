// Package imagecache keeps downloaded source images on disk so repeated
// reductions of the same URL fetch it only once.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/ryijy/internal/util/http"
)

// Options configures image caching behaviour.
type Options struct {
	// Dir is the directory where images are cached.
	// If empty, defaults to DefaultDir().
	Dir string

	// Refresh downloads the image even when a cached copy exists.
	Refresh bool

	Fetch httputil.FetchOptions
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "ryijy", "images"), nil
	}
	return filepath.Join(cacheDir, "ryijy", "images"), nil
}

// Filename returns the cache file name for rawURL: a SHA-256 prefix of the
// URL plus the extension of its path, defaulting to .img.
func Filename(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
	}
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

// Fetch returns the local path of rawURL's cached copy, downloading it first
// when it is not cached yet.
func Fetch(ctx context.Context, rawURL string, opts Options) (string, error) {
	if !httputil.IsURL(rawURL) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := opts.Dir
	if dir == "" {
		defaultDir, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(dir, Filename(rawURL))
	if !opts.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, rawURL, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}
	return cachedPath, nil
}
