package worker

import "context"

// Queue carries the paths that have a pending event and no worker yet.
// Push blocks while the queue is full, which slows the notifier down
// instead of growing without bound.
type Queue struct {
	Ch chan string
}

func NewQueue(size int) *Queue {
	return &Queue{Ch: make(chan string, size)}
}

func (q *Queue) Push(ctx context.Context, path string) bool {
	select {
	case q.Ch <- path:
		return true
	case <-ctx.Done():
		return false
	}
}

func (q *Queue) Pop(ctx context.Context) (string, bool) {
	select {
	case p := <-q.Ch:
		return p, true
	case <-ctx.Done():
		return "", false
	}
}
