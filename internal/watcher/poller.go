package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/raoulx24/dir-guardian/internal/config"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

// PollSource rescans the root on a fixed interval and reports differences
// against the previous scan. A rename shows up as Deleted plus Created.
type PollSource struct {
	lifecycle

	interval  time.Duration
	recursive bool
	log       logging.Logger
}

func NewPollSource(cfg config.WatchConfig, log logging.Logger) *PollSource {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	return &PollSource{
		interval:  interval,
		recursive: cfg.Recursive,
		log:       log,
	}
}

func (p *PollSource) Start(ctx context.Context, root string) (<-chan Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	if err := p.begin(); err != nil {
		return nil, err
	}

	seen := p.scan(root)
	out := make(chan Event, eventBuffer)
	p.wg.Add(1)
	go p.loop(ctx, root, seen, out)

	p.log.Info("watching %s by polling every %s (recursive=%t)", root, p.interval, p.recursive)
	return out, nil
}

func (p *PollSource) Stop() error {
	p.mu.Lock()
	stopped := p.end()
	p.mu.Unlock()
	if stopped {
		p.wg.Wait()
	}
	return nil
}

func (p *PollSource) loop(ctx context.Context, root string, seen map[string]fileState, out chan<- Event) {
	defer p.wg.Done()
	defer close(out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			next := p.scan(root)
			for _, ev := range diff(seen, next, time.Now()) {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				case <-p.done:
					return
				}
			}
			seen = next
		}
	}
}
