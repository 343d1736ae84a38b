package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raoulx24/dir-guardian/internal/config"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

func TestDiff(t *testing.T) {
	t0 := time.Now()
	prev := map[string]fileState{
		"/r/keep.txt":    {mod: t0, size: 1},
		"/r/changed.txt": {mod: t0, size: 1},
		"/r/resized.txt": {mod: t0, size: 1},
		"/r/gone.txt":    {mod: t0, size: 1},
	}
	next := map[string]fileState{
		"/r/keep.txt":    {mod: t0, size: 1},
		"/r/changed.txt": {mod: t0.Add(time.Second), size: 1},
		"/r/resized.txt": {mod: t0, size: 2},
		"/r/new.txt":     {mod: t0, size: 1},
	}

	got := diff(prev, next, t0)
	want := []Event{
		{Path: "/r/changed.txt", Kind: Changed},
		{Path: "/r/gone.txt", Kind: Deleted},
		{Path: "/r/new.txt", Kind: Created},
		{Path: "/r/resized.txt", Kind: Changed},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Path != want[i].Path || got[i].Kind != want[i].Kind {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPollSourceReportsNewFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	src := NewPollSource(config.WatchConfig{PollInterval: 20 * time.Millisecond}, logging.Nop{})
	events, err := src.Start(context.Background(), dir)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer src.Stop()

	path := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	ev := waitForKind(t, events, Created, path)
	if ev.PreviousPath != "" {
		t.Fatalf("unexpected previous path %q", ev.PreviousPath)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	waitForKind(t, events, Deleted, path)
}

func TestPollSourceRecursiveScan(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	flat := NewPollSource(config.WatchConfig{}, logging.Nop{})
	if got := len(flat.scan(dir)); got != 0 {
		t.Fatalf("flat scan found %d files, want 0", got)
	}
	deep := NewPollSource(config.WatchConfig{Recursive: true}, logging.Nop{})
	if got := len(deep.scan(dir)); got != 1 {
		t.Fatalf("recursive scan found %d files, want 1", got)
	}
}

func TestPollSourceRejectsFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	src := NewPollSource(config.WatchConfig{}, logging.Nop{})
	if _, err := src.Start(context.Background(), path); err == nil {
		t.Fatal("expected error for file root")
	}
}
