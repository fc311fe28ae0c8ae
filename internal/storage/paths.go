// Package storage caches compiled BTM programs on disk.
package storage

import (
	"os"
	"path/filepath"
)

const appName = "chessoteric"

// CacheDir returns the directory holding the program cache database,
// creating it if needed.
//   - macOS: ~/Library/Caches/chessoteric/programs
//   - Linux: $XDG_CACHE_HOME/chessoteric/programs (~/.cache by default)
//   - Windows: %LocalAppData%/chessoteric/programs
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, appName, "programs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
