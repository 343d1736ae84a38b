package retention

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	gfs "github.com/raoulx24/dir-guardian/internal/fs"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

func writeAged(t *testing.T, mem afero.Fs, path string, created time.Time) {
	t.Helper()
	if err := afero.WriteFile(mem, path, []byte(filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := mem.Chtimes(path, created, created); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func exists(mem afero.Fs, path string) bool {
	ok, _ := afero.Exists(mem, path)
	return ok
}

func TestPruneDeletesOnlyExpired(t *testing.T) {
	mem := afero.NewMemMapFs()
	now := time.Now()
	writeAged(t, mem, "/store/a.txt", now.AddDate(0, 0, -10))
	writeAged(t, mem, "/store/b.txt", now.AddDate(0, 0, -1))
	log := logging.NewRecorder()

	res, err := Prune(gfs.NewAfero(mem), "/store", Threshold(now, 7), log)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}

	if exists(mem, "/store/a.txt") {
		t.Fatal("a.txt should have been deleted")
	}
	if !exists(mem, "/store/b.txt") {
		t.Fatal("b.txt should have been retained")
	}
	if res.Scanned != 2 || res.Deleted != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if n := log.Count(func(e logging.Entry) bool { return e.Message == "deleted old backup: /store/a.txt" }); n != 1 {
		t.Fatalf("deletion log entries = %d, want 1: %+v", n, log.Entries())
	}
}

func TestPruneBoundaryIsRetained(t *testing.T) {
	mem := afero.NewMemMapFs()
	threshold := Threshold(time.Now(), 7)
	writeAged(t, mem, "/store/at.txt", threshold)
	writeAged(t, mem, "/store/after.txt", threshold.Add(time.Nanosecond))
	writeAged(t, mem, "/store/before.txt", threshold.Add(-time.Nanosecond))

	if _, err := Prune(gfs.NewAfero(mem), "/store", threshold, logging.Nop{}); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if !exists(mem, "/store/at.txt") {
		t.Fatal("artifact exactly at threshold must be retained")
	}
	if !exists(mem, "/store/after.txt") {
		t.Fatal("artifact after threshold must be retained")
	}
	if exists(mem, "/store/before.txt") {
		t.Fatal("artifact before threshold must be deleted")
	}
}

func TestPruneSkipsDirectories(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll("/store/nested", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	old := time.Now().AddDate(0, 0, -30)
	_ = mem.Chtimes("/store/nested", old, old)

	res, err := Prune(gfs.NewAfero(mem), "/store", Threshold(time.Now(), 1), logging.Nop{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if res.Scanned != 0 || !exists(mem, "/store/nested") {
		t.Fatalf("directory should be left alone, result %+v", res)
	}
}

func TestPruneMissingFolderIsNotFatal(t *testing.T) {
	log := logging.NewRecorder()
	res, err := Prune(gfs.NewAfero(afero.NewMemMapFs()), "/nowhere", time.Now(), log)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if res != (Result{}) {
		t.Fatalf("result = %+v, want zero", res)
	}
	if n := log.Count(func(e logging.Entry) bool { return e.Level == "warn" }); n != 1 {
		t.Fatalf("warn entries = %d, want 1", n)
	}
}

type failingRemoveFs struct {
	afero.Fs
}

func (f failingRemoveFs) Remove(string) error { return os.ErrPermission }

func TestPruneContinuesAfterDeleteFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	old := time.Now().AddDate(0, 0, -10)
	writeAged(t, mem, "/store/a.txt", old)
	writeAged(t, mem, "/store/b.txt", old)

	res, err := Prune(gfs.NewAfero(failingRemoveFs{mem}), "/store", Threshold(time.Now(), 7), logging.Nop{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if res.Failed != 2 || res.Deleted != 0 {
		t.Fatalf("result = %+v, want two failures", res)
	}
}

func TestPruneReadError(t *testing.T) {
	mem := afero.NewMemMapFs()
	_ = afero.WriteFile(mem, "/store", []byte("not a dir"), 0o644)

	_, err := Prune(gfs.NewAfero(mem), "/store", time.Now(), logging.Nop{})
	if err == nil || errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestThresholdCountsWholeDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	// clocks moved forward in the night of 2026-03-29
	now := time.Date(2026, 3, 30, 12, 0, 0, 0, loc)

	got := Threshold(now, 2)
	if want := now.Add(-48 * time.Hour); !got.Equal(want) {
		t.Fatalf("threshold = %v, want %v", got, want)
	}
	if now.Sub(got) != 48*time.Hour {
		t.Fatalf("window = %v, want 48h", now.Sub(got))
	}
}
