package retention

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/dir-guardian/internal/logging"
)

// Cleaner is what the sweeper triggers.
type Cleaner interface {
	CleanupOldBackups(retentionDays int) (Result, error)
}

// Sweeper runs a cleanup pass at Start and then on the cron schedule.
// Overlapping passes are skipped rather than queued.
type Sweeper struct {
	mu      sync.Mutex
	cron    *cron.Cron
	job     cron.Job
	days    int
	target  Cleaner
	log     logging.Logger
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewSweeper parses schedule (standard cron or a descriptor such as
// "@every 24h").
func NewSweeper(schedule string, retentionDays int, target Cleaner, log logging.Logger) (*Sweeper, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing cleanup schedule %q: %w", schedule, err)
	}

	cl := cronLogger{log: log}
	s := &Sweeper{
		cron:   cron.New(cron.WithLogger(cl)),
		days:   retentionDays,
		target: target,
		log:    log,
	}
	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.sweep))
	s.cron.Schedule(sched, s.job)
	return s, nil
}

// Start fires the first pass immediately and starts the schedule.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
	s.cron.Start()
}

// Stop disables future passes and waits for an in-flight one to finish.
// It is safe to call more than once and before Start.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()
}

func (s *Sweeper) sweep() {
	s.log.Info("performing periodic cleanup of old backups")
	res, err := s.target.CleanupOldBackups(s.days)
	if err != nil {
		s.log.Error("error during backup cleanup: %v", err)
		return
	}
	s.log.Debug("cleanup done: scanned=%d deleted=%d failed=%d", res.Scanned, res.Deleted, res.Failed)
}

// cronLogger routes cron's own messages to the guardian logger.
type cronLogger struct {
	log logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
