package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// ApplyDefaults fills zero values and normalises the extension allow-list to
// lowercase entries with a leading dot. Retry values are left as configured;
// RetryAttempts and RetryDelayDuration resolve their defaults.
func (c *Config) ApplyDefaults() {
	if c.Watch.Mode == "" {
		c.Watch.Mode = ModeAuto
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = DefaultPollInterval
	}
	if c.Watch.RenameWindow <= 0 {
		c.Watch.RenameWindow = DefaultRenameWindow
	}
	if strings.TrimSpace(c.Cleanup.Schedule) == "" {
		c.Cleanup.Schedule = DefaultSchedule
	}
	if c.Workers.Count <= 0 {
		c.Workers.Count = DefaultWorkers
	}
	if c.Workers.QueueSize <= 0 {
		c.Workers.QueueSize = DefaultQueueSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	exts := make([]string, 0, len(c.FileExtensionsToBackup))
	for _, ext := range c.FileExtensionsToBackup {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.FileExtensionsToBackup = exts
}

// Validate reports the first problem that would prevent the pipeline from
// starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MonitoredFolder) == "" {
		return fmt.Errorf("%w: monitoredFolder is not set", ErrInvalid)
	}
	if strings.TrimSpace(c.BackupFolder) == "" {
		return fmt.Errorf("%w: backupFolder is not set", ErrInvalid)
	}
	if samePath(c.MonitoredFolder, c.BackupFolder) {
		return fmt.Errorf("%w: backupFolder must differ from monitoredFolder", ErrInvalid)
	}
	if c.Watch.Recursive && within(c.BackupFolder, c.MonitoredFolder) {
		return fmt.Errorf("%w: backupFolder must not be inside a recursively watched monitoredFolder", ErrInvalid)
	}
	for _, f := range []struct{ key, path string }{
		{"backupLogPath", c.BackupLogPath},
		{"logFilePath", c.LogFilePath},
	} {
		if f.path != "" && c.watches(f.path) {
			return fmt.Errorf("%w: %s must not be inside the watched monitoredFolder", ErrInvalid, f.key)
		}
	}
	if c.CleanupRetentionDays < 0 {
		return fmt.Errorf("%w: cleanupRetentionDays must not be negative", ErrInvalid)
	}

	switch c.Watch.Mode {
	case ModeAuto, ModePoll, ModeFsnotify:
	default:
		return fmt.Errorf("%w: unknown watch mode %q", ErrInvalid, c.Watch.Mode)
	}

	if _, err := cron.ParseStandard(c.Cleanup.Schedule); err != nil {
		return fmt.Errorf("%w: cleanup schedule %q: %v", ErrInvalid, c.Cleanup.Schedule, err)
	}
	return nil
}

// watches reports whether events for path would reach the watcher: a direct
// child of the monitored root, or any descendant when the watch is recursive.
func (c *Config) watches(path string) bool {
	if c.Watch.Recursive {
		return within(path, c.MonitoredFolder)
	}
	return samePath(filepath.Dir(path), c.MonitoredFolder)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// within reports whether path lies under root.
func within(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
