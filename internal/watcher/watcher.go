// Package watcher turns changes under the monitored root into Events.
// Native notifications (fsnotify) and directory polling are interchangeable
// behind Source; "auto" probes the root and picks one at start.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raoulx24/dir-guardian/internal/config"
	"github.com/raoulx24/dir-guardian/internal/fsprobe"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

var (
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrStopped        = errors.New("watcher stopped")
)

// Source emits Events for one root. Stop releases the underlying watch and
// closes the event channel; it is a no-op when called twice or before Start.
type Source interface {
	Start(ctx context.Context, root string) (<-chan Event, error)
	Stop() error
}

// New builds the Source for the configured watch mode.
func New(cfg config.WatchConfig, log logging.Logger) (Source, error) {
	switch cfg.Mode {
	case config.ModeFsnotify:
		return NewNotifySource(cfg, log), nil
	case config.ModePoll:
		return NewPollSource(cfg, log), nil
	case config.ModeAuto, "":
		return &autoSource{cfg: cfg, log: log}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// autoSource probes the root on Start and delegates to fsnotify when it
// delivers events there, to polling otherwise.
type autoSource struct {
	cfg config.WatchConfig
	log logging.Logger

	mu     sync.Mutex
	active Source
}

func (a *autoSource) Start(ctx context.Context, root string) (<-chan Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active != nil {
		return nil, ErrAlreadyStarted
	}

	var src Source
	res := fsprobe.Probe(root)
	if res.FsnotifySupported {
		if !res.Verified {
			a.log.Warn("using fsnotify for %s without a delivery check: %s", root, res.Reason)
		}
		src = NewNotifySource(a.cfg, a.log)
	} else {
		a.log.Warn("fsnotify disabled for %s: %s; polling every %s", root, res.Reason, a.cfg.PollInterval)
		src = NewPollSource(a.cfg, a.log)
	}

	events, err := src.Start(ctx, root)
	if err != nil {
		return nil, err
	}
	a.active = src
	return events, nil
}

func (a *autoSource) Stop() error {
	a.mu.Lock()
	src := a.active
	a.mu.Unlock()
	if src == nil {
		return nil
	}
	return src.Stop()
}
