//go:build linux

package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStatReportsBirthTimeNotModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	info, err := New().Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Created.Equal(info.MTime) {
		t.Skip("filesystem does not record birth time")
	}
	if since := time.Since(info.Created); since < -time.Minute || since > time.Minute {
		t.Fatalf("created = %v, want the time the file was written", info.Created)
	}
}
