package retention

import (
	"sync"
	"testing"
	"time"

	"github.com/raoulx24/dir-guardian/internal/logging"
)

type countingCleaner struct {
	mu    sync.Mutex
	days  []int
	calls chan struct{}
	block chan struct{}
}

func newCountingCleaner() *countingCleaner {
	return &countingCleaner{calls: make(chan struct{}, 16)}
}

func (c *countingCleaner) CleanupOldBackups(days int) (Result, error) {
	c.mu.Lock()
	c.days = append(c.days, days)
	c.mu.Unlock()
	c.calls <- struct{}{}
	if c.block != nil {
		<-c.block
	}
	return Result{}, nil
}

func (c *countingCleaner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.days)
}

func TestSweeperRunsImmediately(t *testing.T) {
	cleaner := newCountingCleaner()
	s, err := NewSweeper("@every 24h", 7, cleaner, logging.Nop{})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case <-cleaner.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial sweep")
	}
	cleaner.mu.Lock()
	days := cleaner.days[0]
	cleaner.mu.Unlock()
	if days != 7 {
		t.Fatalf("retention days = %d, want 7", days)
	}
}

func TestSweeperStopDisablesFutureRuns(t *testing.T) {
	cleaner := newCountingCleaner()
	s, err := NewSweeper("@every 1s", 1, cleaner, logging.Nop{})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	s.Start()
	<-cleaner.calls
	s.Stop()

	n := cleaner.count()
	time.Sleep(1500 * time.Millisecond)
	if got := cleaner.count(); got != n {
		t.Fatalf("sweeps after stop: before=%d after=%d", n, got)
	}
}

func TestSweeperStopWaitsForInFlight(t *testing.T) {
	cleaner := newCountingCleaner()
	cleaner.block = make(chan struct{})
	s, err := NewSweeper("@every 24h", 1, cleaner, logging.Nop{})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	s.Start()
	<-cleaner.calls

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(cleaner.block)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after sweep finished")
	}
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s, err := NewSweeper("@every 24h", 1, newCountingCleaner(), logging.Nop{})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper("whenever", 1, newCountingCleaner(), logging.Nop{}); err == nil {
		t.Fatal("expected error for bad schedule")
	}
}
