package fs

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultDelay       = 5 * time.Second
)

// Policy bounds how often a locked operation is attempted.
type Policy struct {
	MaxAttempts int           // non-positive means 3
	Delay       time.Duration // non-positive means 5s

	// OnRetry is called before sleeping, with the attempt that just failed.
	OnRetry func(attempt int, err error)
}

// Normalized returns p with defaults substituted for non-positive values.
func (p Policy) Normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.Delay <= 0 {
		p.Delay = defaultDelay
	}
	return p
}

// Retry runs fn until it succeeds, fails with a non-lock error, or has failed
// with a lock error MaxAttempts times. Lock exhaustion returns a
// *RetryExhaustedError; other failures are wrapped and returned at once.
func Retry(ctx context.Context, p Policy, opName string, fn func() error) error {
	p = p.Normalized()

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}

		if !IsLocked(err) {
			return fmt.Errorf("%s failed permanently: %w", opName, err)
		}

		if attempt >= p.MaxAttempts {
			return &RetryExhaustedError{Op: opName, Attempts: attempt, Err: err}
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		t := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
