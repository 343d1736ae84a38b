package watcher

import (
	"io/fs"
	"path/filepath"
)

// collectDirs lists every directory below root, root excluded. Unreadable
// entries are skipped.
func collectDirs(root string) ([]string, error) {
	dirs := []string{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
