//go:build linux

package fs

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// createdAt asks statx for the birth time. Filesystems that do not record
// one, and FileInfo values that do not come from the OS, fall back to the
// modification time.
func createdAt(path string, info os.FileInfo) time.Time {
	if _, ok := info.Sys().(*syscall.Stat_t); !ok {
		return info.ModTime()
	}
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return info.ModTime()
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
