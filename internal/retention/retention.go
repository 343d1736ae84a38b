// Package retention deletes backup artifacts older than the retention window
// and schedules that sweep.
package retention

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	gfs "github.com/raoulx24/dir-guardian/internal/fs"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

// Result summarises one sweep pass.
type Result struct {
	Scanned int
	Deleted int
	Failed  int
}

// Threshold is the cutoff below which artifacts are eligible for deletion:
// retentionDays whole 24 hour periods before now, regardless of DST shifts.
func Threshold(now time.Time, retentionDays int) time.Time {
	return now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
}

// Prune deletes every regular file directly under dir whose creation time is
// strictly before threshold. A missing dir is logged and is not an error.
// A failed deletion is logged and counted; the pass continues.
func Prune(f gfs.FS, dir string, threshold time.Time, log logging.Logger) (Result, error) {
	var res Result

	entries, err := f.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("backup folder does not exist: %s", dir)
			return res, nil
		}
		return res, fmt.Errorf("reading backup folder: %w", err)
	}

	for _, e := range entries {
		if e.IsDir {
			continue
		}
		res.Scanned++

		if !e.Created.Before(threshold) {
			continue
		}

		if err := f.Remove(e.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			res.Failed++
			log.Error("failed to delete old backup %s: %v", e.Path, err)
			continue
		}
		res.Deleted++
		log.Info("deleted old backup: %s", e.Path)
	}

	return res, nil
}
