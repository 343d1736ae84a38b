//go:build !windows && !darwin && !linux

package fs

import (
	"os"
	"time"
)

// createdAt falls back to the modification time where the birth time is not
// exposed by os.FileInfo. Backup artifacts are written once and never
// modified, so for them the two coincide.
func createdAt(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
