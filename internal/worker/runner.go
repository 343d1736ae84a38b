package worker

import "context"

// RunLoop pulls ready paths from the queue and drains them until ctx ends.
func RunLoop(ctx context.Context, p *Pool) {
	for {
		path, ok := p.queue.Pop(ctx)
		if !ok {
			return
		}
		p.drain(path)
	}
}
