// Package paths resolves the on-disk layout of a Halogen profile. All
// components agree on this layout through these helpers instead of joining
// path fragments themselves.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ProfileDir is the default profile root. Everything Halogen persists lives
// underneath it.
const ProfileDir = "~/.halogen"

// Profile subdirectories.
const (
	// StateDirName holds the session documents (tabs, bookmarks, settings,
	// theme).
	StateDirName = "state"

	// CacheDirName is handed to the rendering surface for its disk cache.
	CacheDirName = "cache"

	// DownloadsDirName is the default download target.
	DownloadsDirName = "downloads"
)

// StateDir returns the session-state directory under the given profile root.
func StateDir(profile string) string {
	return filepath.Join(profile, StateDirName)
}

// CacheDir returns the rendering-surface cache directory under the given
// profile root.
func CacheDir(profile string) string {
	return filepath.Join(profile, CacheDirName)
}

// DownloadsDir returns the download directory under the given profile root.
func DownloadsDir(profile string) string {
	return filepath.Join(profile, DownloadsDirName)
}

// ExpandHome resolves a leading ~ against the current user's home directory.
// Paths without one pass through unchanged.
func ExpandHome(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}
	return dir, nil
}

// DocumentFile returns the file path of a named session document inside a
// state directory.
func DocumentFile(stateDir, name string) string {
	return filepath.Join(stateDir, name+".json")
}
