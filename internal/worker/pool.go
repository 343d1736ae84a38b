// Package worker dispatches watch events to a bounded set of workers.
// Events for one path are handled by one worker at a time and in arrival
// order; while a path is busy only its latest event is kept pending, except
// that a pending rename keeps its previous path.
package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raoulx24/dir-guardian/internal/logging"
	"github.com/raoulx24/dir-guardian/internal/mailbox"
	"github.com/raoulx24/dir-guardian/internal/watcher"
)

// Handler processes one event. It is called from worker goroutines with a
// context that is not cancelled by Stop, so in-flight work runs to the end.
type Handler interface {
	HandleEvent(ctx context.Context, ev watcher.Event)
}

type Pool struct {
	workers int
	handler Handler
	log     logging.Logger
	queue   *Queue

	mu    sync.Mutex
	slots map[string]*mailbox.Mailbox[watcher.Event]

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

func NewPool(workers, queueSize int, h Handler, log logging.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Pool{
		workers: workers,
		handler: h,
		log:     log,
		queue:   NewQueue(queueSize),
		slots:   make(map[string]*mailbox.Mailbox[watcher.Event]),
	}
}

// Start launches the workers. Cancelling ctx or calling Stop ends them.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.group, p.ctx = errgroup.WithContext(p.ctx)

	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			RunLoop(p.ctx, p)
			return nil
		})
	}
}

// Submit hands ev to the pool. It blocks only while the ready queue is full
// and returns false once the pool is stopping.
func (p *Pool) Submit(ev watcher.Event) bool {
	if p.ctx == nil || p.ctx.Err() != nil {
		return false
	}
	p.mu.Lock()
	if mb, busy := p.slots[ev.Path]; busy {
		replaced := mb.Merge(ev, coalesce)
		p.mu.Unlock()
		if replaced {
			p.log.Debug("coalesced pending event for %s into %s", ev.Path, ev.Kind)
		}
		return true
	}
	mb := mailbox.New[watcher.Event]()
	mb.Put(ev)
	p.slots[ev.Path] = mb
	p.mu.Unlock()

	if !p.queue.Push(p.ctx, ev.Path) {
		p.mu.Lock()
		delete(p.slots, ev.Path)
		p.mu.Unlock()
		return false
	}
	return true
}

// Stop stops taking new work and waits for in-flight events to finish.
// Events still pending are dropped and counted in the log.
func (p *Pool) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	_ = p.group.Wait()

	p.mu.Lock()
	pending := len(p.slots)
	p.slots = make(map[string]*mailbox.Mailbox[watcher.Event])
	p.mu.Unlock()
	if pending > 0 {
		p.log.Warn("dropped pending events for %d paths on stop", pending)
	}
}

// drain handles events for path until its mailbox stays empty, then
// releases the path.
func (p *Pool) drain(path string) {
	ctx := context.WithoutCancel(p.ctx)
	for {
		p.mu.Lock()
		mb, ok := p.slots[path]
		if !ok {
			p.mu.Unlock()
			return
		}
		ev := mb.TryTake()
		if ev == nil {
			delete(p.slots, path)
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		p.handler.HandleEvent(ctx, *ev)
	}
}

// coalesce folds next into a pending event for the same path. The latest
// kind wins, but a pending Renamed survives so its previous path is still
// backed up.
func coalesce(pending, next watcher.Event) watcher.Event {
	if pending.Kind == watcher.Renamed && next.Kind != watcher.Renamed {
		pending.ObservedAt = next.ObservedAt
		return pending
	}
	return next
}
