package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// fileState is what a poll remembers about one regular file.
type fileState struct {
	mod  time.Time
	size int64
}

// scan records every regular file under root, descending only when
// recursive.
func (p *PollSource) scan(root string) map[string]fileState {
	seen := map[string]fileState{}

	if !p.recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			p.log.Error("watcher: failed to read dir %s: %v", root, err)
			return seen
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			full := filepath.Join(root, e.Name())
			info, err := e.Info()
			if err != nil {
				continue
			}
			seen[full] = fileState{mod: info.ModTime(), size: info.Size()}
		}
		return seen
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[path] = fileState{mod: info.ModTime(), size: info.Size()}
		return nil
	})
	return seen
}

// diff compares two scans. Events are ordered by path for determinism.
func diff(prev, next map[string]fileState, now time.Time) []Event {
	var events []Event

	for path, st := range next {
		old, ok := prev[path]
		switch {
		case !ok:
			events = append(events, Event{Path: path, Kind: Created, ObservedAt: now})
		case st.mod.After(old.mod) || st.size != old.size:
			events = append(events, Event{Path: path, Kind: Changed, ObservedAt: now})
		}
	}
	for path := range prev {
		if _, ok := next[path]; !ok {
			events = append(events, Event{Path: path, Kind: Deleted, ObservedAt: now})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Path < events[j].Path
	})
	return events
}
