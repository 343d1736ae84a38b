package watcher

import (
	"os"
	"path/filepath"
)

// identities remembers the last stat of each entry under the watch so a
// Create can be matched against the file a preceding Rename took away.
// It is owned by the event loop goroutine.
type identities map[string]os.FileInfo

// seed records every entry directly inside dirs.
func (id identities) seed(dirs []string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			id.remember(filepath.Join(dir, e.Name()))
		}
	}
}

func (id identities) remember(path string) {
	st, err := os.Lstat(path)
	if err != nil {
		delete(id, path)
		return
	}
	// Windows loads the file id lazily through the path, which a rename
	// invalidates; load it while the path still resolves.
	os.SameFile(st, st)
	id[path] = st
}

func (id identities) forget(path string) os.FileInfo {
	st := id[path]
	delete(id, path)
	return st
}

// same reports whether path now holds the file described by prev.
func (id identities) same(prev os.FileInfo, path string) bool {
	cur, ok := id[path]
	if prev == nil || !ok {
		return false
	}
	return os.SameFile(prev, cur)
}
