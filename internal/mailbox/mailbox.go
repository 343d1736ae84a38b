package mailbox

import "sync"

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue. It holds at most one pending job.
// Put() overwrites any existing job.
type Mailbox[T any] struct {
	mu  sync.Mutex
	job *T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Put stores a job in the mailbox, replacing any existing job. It reports
// whether a pending job was replaced. It never blocks.
func (m *Mailbox[T]) Put(j T) (replaced bool) {
	m.mu.Lock()
	replaced = m.job != nil
	m.job = &j
	m.mu.Unlock()
	return replaced
}

// Merge stores j, or merge(pending, j) when a job is already waiting. It
// reports whether a pending job was folded in.
func (m *Mailbox[T]) Merge(j T, merge func(pending, next T) T) (merged bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.job != nil {
		j = merge(*m.job, j)
		merged = true
	}
	m.job = &j
	return merged
}

// TryTake returns the job if present, or nil if empty.
// It never blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.job == nil {
		return nil
	}

	j := m.job
	m.job = nil
	return j
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job != nil
}
