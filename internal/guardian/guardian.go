// Package guardian wires the watcher, the backup engine, the worker pool and
// the retention sweeper into one pipeline with a start/stop lifecycle:
//
//	Stopped -> Starting -> Running -> Stopping -> Stopped
//
// A failed start releases whatever it created and returns to Stopped.
package guardian

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raoulx24/dir-guardian/internal/backup"
	"github.com/raoulx24/dir-guardian/internal/config"
	gfs "github.com/raoulx24/dir-guardian/internal/fs"
	"github.com/raoulx24/dir-guardian/internal/logging"
	"github.com/raoulx24/dir-guardian/internal/retention"
	"github.com/raoulx24/dir-guardian/internal/watcher"
	"github.com/raoulx24/dir-guardian/internal/worker"
)

// ErrNotStopped is returned by Start unless the guardian is Stopped.
var ErrNotStopped = errors.New("guardian is not stopped")

// SourceFactory builds the change source for a watch configuration.
type SourceFactory func(cfg config.WatchConfig, log logging.Logger) (watcher.Source, error)

type Option func(*Guardian)

// WithFS replaces the filesystem used for the backup store and source reads.
func WithFS(f gfs.FS) Option {
	return func(g *Guardian) { g.fs = f }
}

// WithSourceFactory replaces how the change source is built.
func WithSourceFactory(f SourceFactory) Option {
	return func(g *Guardian) { g.newSource = f }
}

type Guardian struct {
	cfg       *config.Config
	log       logging.Logger
	fs        gfs.FS
	newSource SourceFactory

	mu    sync.Mutex
	state State

	source   watcher.Source
	sweeper  *retention.Sweeper
	pool     *worker.Pool
	cancel   context.CancelFunc
	forwards sync.WaitGroup
}

func New(cfg *config.Config, log logging.Logger, opts ...Option) *Guardian {
	g := &Guardian{
		cfg:       cfg,
		log:       log,
		fs:        gfs.New(),
		newSource: watcher.New,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current lifecycle state.
func (g *Guardian) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Start validates the configuration and brings the pipeline to Running.
// Stop must be called even if ctx is cancelled later.
func (g *Guardian) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Stopped {
		return fmt.Errorf("%w: %s", ErrNotStopped, g.state)
	}
	g.state = Starting

	if err := g.start(ctx); err != nil {
		g.log.Error("error starting guardian: %v", err)
		g.release()
		g.state = Stopped
		return err
	}

	g.state = Running
	g.log.Info("guardian started for folder: %s", g.cfg.MonitoredFolder)
	return nil
}

func (g *Guardian) start(ctx context.Context) error {
	if g.cfg == nil {
		return fmt.Errorf("%w: no configuration", config.ErrInvalid)
	}
	cfg := g.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	root, err := g.fs.Stat(cfg.MonitoredFolder)
	if err != nil {
		return fmt.Errorf("monitored folder: %w", err)
	}
	if !root.IsDir {
		return fmt.Errorf("%w: monitored folder %s is not a directory", config.ErrInvalid, cfg.MonitoredFolder)
	}
	if err := g.fs.MkdirAll(cfg.BackupFolder); err != nil {
		return fmt.Errorf("creating backup folder: %w", err)
	}

	g.log.Info("initializing backup engine for %s", cfg.BackupFolder)
	engine := backup.New(backup.Options{
		BackupFolder:  cfg.BackupFolder,
		Extensions:    cfg.FileExtensionsToBackup,
		MaxRetries:    cfg.RetryAttempts(),
		RetryDelay:    cfg.RetryDelayDuration(),
		BackupLogPath: cfg.BackupLogPath,
		FS:            g.fs,
	}, g.log)

	sweeper, err := retention.NewSweeper(cfg.Cleanup.Schedule, cfg.CleanupRetentionDays, engine, g.log)
	if err != nil {
		return err
	}

	source, err := g.newSource(cfg.Watch, g.log)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel

	g.pool = worker.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, engine, g.log)
	g.pool.Start(runCtx)

	g.source = source
	events, err := source.Start(runCtx, cfg.MonitoredFolder)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	g.forwards.Add(1)
	go g.forward(events)

	g.sweeper = sweeper
	sweeper.Start()
	return nil
}

// forward feeds source events into the pool until the source closes.
func (g *Guardian) forward(events <-chan watcher.Event) {
	defer g.forwards.Done()
	pool := g.pool
	for ev := range events {
		if !pool.Submit(ev) {
			g.log.Debug("event for %s dropped: pool stopping", ev.Path)
		}
	}
}

// Stop brings a Running guardian back to Stopped. The watcher is stopped
// first, then the sweeper; a failure in one step does not skip the others.
// Stop is a no-op unless the guardian is Running.
func (g *Guardian) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Running {
		return nil
	}
	g.state = Stopping
	g.log.Info("stopping guardian")

	err := g.release()

	g.state = Stopped
	if err != nil {
		g.log.Error("error stopping guardian: %v", err)
	} else {
		g.log.Info("guardian stopped")
	}
	return err
}

// release tears down every resource that exists. Called with mu held.
func (g *Guardian) release() error {
	var errs []error

	if g.source != nil {
		errs = append(errs, step("watcher", func() error {
			err := g.source.Stop()
			g.forwards.Wait()
			return err
		}))
		g.source = nil
	}
	if g.sweeper != nil {
		errs = append(errs, step("sweeper", func() error {
			g.sweeper.Stop()
			return nil
		}))
		g.sweeper = nil
	}
	if g.pool != nil {
		errs = append(errs, step("workers", func() error {
			g.pool.Stop()
			return nil
		}))
		g.pool = nil
	}
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}

	return errors.Join(errs...)
}

// step runs one shutdown step, turning a panic into an error.
func step(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stopping %s: panic: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("stopping %s: %w", name, err)
	}
	return nil
}
