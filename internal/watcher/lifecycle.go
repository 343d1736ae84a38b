package watcher

import "sync"

// lifecycle holds the start/stop bookkeeping shared by the Source variants.
type lifecycle struct {
	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// begin marks the source started. It fails on a second start and after stop.
func (l *lifecycle) begin() error {
	if l.stopped {
		return ErrStopped
	}
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true
	l.done = make(chan struct{})
	return nil
}

// end reports whether this call performed the stop; later calls and calls
// before begin return false.
func (l *lifecycle) end() bool {
	if !l.started || l.stopped {
		return false
	}
	l.stopped = true
	close(l.done)
	return true
}
