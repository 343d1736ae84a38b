package watcher

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raoulx24/dir-guardian/internal/config"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

const eventBuffer = 64

// NotifySource reports changes through fsnotify.
//
// fsnotify reports a rename as Rename on the old name followed by Create on
// the new one. The two are paired into one Renamed event when the Create
// arrives within RenameWindow and names the same file (same device and
// inode, or file id on Windows). Otherwise the old name left the tree and is
// reported as Deleted, followed by the Create.
//
// When the kernel event queue overflows the lost events are not recovered:
// the overflow is logged and counted in Dropped.
type NotifySource struct {
	lifecycle

	recursive    bool
	renameWindow time.Duration
	log          logging.Logger

	fsw     *fsnotify.Watcher
	dropped atomic.Uint64
}

func NewNotifySource(cfg config.WatchConfig, log logging.Logger) *NotifySource {
	window := cfg.RenameWindow
	if window <= 0 {
		window = config.DefaultRenameWindow
	}
	return &NotifySource{
		recursive:    cfg.Recursive,
		renameWindow: window,
		log:          log,
	}
}

// Dropped returns how many kernel queue overflows were reported.
func (s *NotifySource) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *NotifySource) Start(ctx context.Context, root string) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		s.started = false
		return nil, err
	}

	dirs := []string{root}
	if s.recursive {
		sub, err := collectDirs(root)
		if err != nil {
			_ = fsw.Close()
			s.started = false
			return nil, err
		}
		dirs = append(dirs, sub...)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			s.started = false
			return nil, err
		}
	}

	known := identities{}
	known.seed(dirs)

	s.fsw = fsw
	out := make(chan Event, eventBuffer)
	s.wg.Add(1)
	go s.run(ctx, out, known)

	s.log.Info("watching %s with fsnotify (recursive=%t)", root, s.recursive)
	return out, nil
}

func (s *NotifySource) Stop() error {
	s.mu.Lock()
	if !s.end() {
		s.mu.Unlock()
		return nil
	}
	fsw := s.fsw
	s.mu.Unlock()

	err := fsw.Close()
	s.wg.Wait()
	return err
}

type pendingRename struct {
	path string
	at   time.Time
	info os.FileInfo // last stat of path, nil if never seen
}

func (s *NotifySource) run(ctx context.Context, out chan<- Event, known identities) {
	defer s.wg.Done()
	defer close(out)

	var (
		pending *pendingRename
		timer   = time.NewTimer(time.Hour)
	)
	timer.Stop()
	defer timer.Stop()

	emit := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-s.done:
			return false
		case <-ctx.Done():
			return false
		}
	}

	// flush reports a rename that found no matching create.
	flush := func() bool {
		if pending == nil {
			return true
		}
		ev := Event{Path: pending.path, Kind: Deleted, ObservedAt: pending.at}
		pending = nil
		return emit(ev)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return

		case <-timer.C:
			if !flush() {
				return
			}

		case ev, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			now := time.Now()
			s.log.Debug("fsnotify event %s %s", ev.Op, ev.Name)

			switch {
			case ev.Has(fsnotify.Create):
				if s.recursive {
					s.watchNewDir(ev.Name, known)
				}
				known.remember(ev.Name)
				if pending != nil && now.Sub(pending.at) <= s.renameWindow && known.same(pending.info, ev.Name) {
					timer.Stop()
					prev := pending.path
					pending = nil
					if !emit(Event{Path: ev.Name, Kind: Renamed, PreviousPath: prev, ObservedAt: now}) {
						return
					}
					continue
				}
				if pending != nil {
					timer.Stop()
					if !flush() {
						return
					}
				}
				if !emit(Event{Path: ev.Name, Kind: Created, ObservedAt: now}) {
					return
				}

			case ev.Has(fsnotify.Write):
				if !emit(Event{Path: ev.Name, Kind: Changed, ObservedAt: now}) {
					return
				}

			case ev.Has(fsnotify.Remove):
				known.forget(ev.Name)
				if !emit(Event{Path: ev.Name, Kind: Deleted, ObservedAt: now}) {
					return
				}

			case ev.Has(fsnotify.Rename):
				if !flush() {
					return
				}
				pending = &pendingRename{path: ev.Name, at: now, info: known.forget(ev.Name)}
				timer.Reset(s.renameWindow)
			}

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				n := s.dropped.Add(1)
				s.log.Warn("fsnotify event queue overflowed, events were dropped (overflows=%d)", n)
				continue
			}
			s.log.Error("fsnotify error: %v", err)
		}
	}
}

// watchNewDir extends a recursive watch to a directory created after Start.
func (s *NotifySource) watchNewDir(path string, known identities) {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return
	}
	dirs, err := collectDirs(path)
	if err != nil {
		s.log.Warn("scan new directory %s: %v", path, err)
	}
	all := append([]string{path}, dirs...)
	for _, dir := range all {
		if err := s.fsw.Add(dir); err != nil {
			s.log.Warn("watch add failed for %s: %v", dir, err)
		}
	}
	known.seed(all)
}
