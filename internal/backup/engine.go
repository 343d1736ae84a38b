// Package backup copies allow-listed files into the backup store.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/raoulx24/dir-guardian/internal/artifact"
	gfs "github.com/raoulx24/dir-guardian/internal/fs"
	"github.com/raoulx24/dir-guardian/internal/logging"
	"github.com/raoulx24/dir-guardian/internal/retention"
	"github.com/raoulx24/dir-guardian/internal/watcher"
)

// Outcome is the result kind of one backup attempt.
type Outcome int

const (
	Copied Outcome = iota + 1
	SkippedExtension
	SkippedMissing
	SkippedNotRegular
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case SkippedExtension:
		return "skipped-extension"
	case SkippedMissing:
		return "skipped-missing"
	case SkippedNotRegular:
		return "skipped-not-regular"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures an Engine.
type Options struct {
	BackupFolder  string
	Extensions    []string // compared case-insensitively
	MaxRetries    int
	RetryDelay    time.Duration
	BackupLogPath string // optional journal of successful copies

	FS  gfs.FS           // nil means the OS filesystem
	Now func() time.Time // nil means time.Now
}

type Engine struct {
	store   string
	exts    map[string]struct{}
	policy  gfs.Policy
	journal string
	fs      gfs.FS
	now     func() time.Time
	log     logging.Logger
}

func New(opts Options, log logging.Logger) *Engine {
	if opts.FS == nil {
		opts.FS = gfs.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}

	return &Engine{
		store:   opts.BackupFolder,
		exts:    exts,
		policy:  gfs.Policy{MaxAttempts: opts.MaxRetries, Delay: opts.RetryDelay}.Normalized(),
		journal: opts.BackupLogPath,
		fs:      opts.FS,
		now:     opts.Now,
		log:     log,
	}
}

// ShouldBackup reports whether path carries an allow-listed extension.
// An empty allow-list backs up nothing.
func (e *Engine) ShouldBackup(path string) bool {
	if len(e.exts) == 0 {
		e.log.Warn("no file extensions are configured for backup")
		return false
	}
	_, ok := e.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// HandleEvent reacts to one watch event. Failures stay inside this call.
func (e *Engine) HandleEvent(ctx context.Context, ev watcher.Event) {
	switch ev.Kind {
	case watcher.Deleted:
		e.log.Info("file deleted: %s", ev.Path)

	case watcher.Renamed:
		e.log.Info("file renamed from '%s' to '%s'", ev.PreviousPath, ev.Path)
		e.backupIfAllowed(ctx, ev.Path)
		if ev.PreviousPath != "" {
			e.backupIfAllowed(ctx, ev.PreviousPath)
		}

	default:
		e.log.Info("file %s: %s", ev.Kind, ev.Path)
		e.backupIfAllowed(ctx, ev.Path)
	}
}

func (e *Engine) backupIfAllowed(ctx context.Context, path string) {
	if !e.ShouldBackup(path) {
		e.log.Info("file skipped (unsupported extension): %s", path)
		return
	}
	_, _, _ = e.BackupFile(ctx, path)
}

// BackupFile copies sourcePath into the store under the retry policy and
// returns the artifact path on success. A vanished source or a directory is
// a benign skip with a nil error.
func (e *Engine) BackupFile(ctx context.Context, sourcePath string) (string, Outcome, error) {
	info, err := e.fs.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.log.Info("file not found: %s", sourcePath)
			return "", SkippedMissing, nil
		}
		e.log.Error("error during backup of '%s': %v", sourcePath, err)
		return "", Failed, err
	}
	if info.IsDir {
		e.log.Debug("not a regular file, skipped: %s", sourcePath)
		return "", SkippedNotRegular, nil
	}

	if err := e.fs.MkdirAll(e.store); err != nil {
		e.log.Error("error during backup of '%s': creating backup folder: %v", sourcePath, err)
		return "", Failed, fmt.Errorf("creating backup folder: %w", err)
	}

	policy := e.policy
	policy.OnRetry = func(attempt int, err error) {
		e.log.Warn("operation 'BackupFile' failed on attempt %d for '%s': %v; retrying in %s",
			attempt, sourcePath, err, policy.Delay)
	}

	var dst string
	err = gfs.Retry(ctx, policy, "BackupFile", func() error {
		copied, cerr := e.copyToStore(sourcePath)
		dst = copied
		return cerr
	})

	var exhausted *gfs.RetryExhaustedError
	switch {
	case err == nil:
		e.recordBackup(sourcePath, dst)
		return dst, Copied, nil
	case errors.As(err, &exhausted):
		e.log.Error("operation 'BackupFile' failed after %d retries for '%s': %v", exhausted.Attempts, sourcePath, exhausted.Err)
	case errors.Is(err, fs.ErrNotExist):
		// removed between the stat and the copy
		e.log.Info("file not found: %s", sourcePath)
		return "", SkippedMissing, nil
	default:
		e.log.Error("error during backup of '%s': %v", sourcePath, err)
	}
	return "", Failed, err
}

// copyToStore makes one copy attempt. The artifact name is reserved with an
// exclusive create; a taken name gets the next collision counter.
func (e *Engine) copyToStore(src string) (string, error) {
	now := e.now()
	for seq := 0; seq <= artifact.MaxCollisions; seq++ {
		dst := filepath.Join(e.store, artifact.Name(now, src, seq))
		err := e.fs.CopyFile(src, dst)
		if err == nil {
			if seq > 0 {
				e.log.Warn("backup name collision for '%s', stored as %s", src, filepath.Base(dst))
			}
			return dst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free artifact name for %s after %d collisions", filepath.Base(src), artifact.MaxCollisions)
}

// CleanupOldBackups deletes store entries created before now minus
// retentionDays.
func (e *Engine) CleanupOldBackups(retentionDays int) (retention.Result, error) {
	return retention.Prune(e.fs, e.store, retention.Threshold(e.now(), retentionDays), e.log)
}

var _ retention.Cleaner = (*Engine)(nil)
