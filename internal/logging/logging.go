// Package logging provides the log sink used across the guardian.
package logging

import (
	"fmt"
	"log"
	"sync"
)

// Logger is the sink every component records significant events through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StdLogger writes through the standard library logger.
type StdLogger struct{}

func (StdLogger) Debug(msg string, args ...any) { log.Printf("DEBUG: "+msg, args...) }
func (StdLogger) Info(msg string, args ...any)  { log.Printf("INFO: "+msg, args...) }
func (StdLogger) Warn(msg string, args ...any)  { log.Printf("WARN: "+msg, args...) }
func (StdLogger) Error(msg string, args ...any) { log.Printf("ERROR: "+msg, args...) }

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// Entry is one message kept by a Recorder.
type Entry struct {
	Level   string
	Message string
}

// Recorder keeps formatted messages in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Debug(msg string, args ...any) { r.add("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.add("error", msg, args) }

func (r *Recorder) add(level, msg string, args []any) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(msg, args...)})
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Count returns how many recorded messages satisfy match.
func (r *Recorder) Count(match func(Entry) bool) int {
	n := 0
	for _, e := range r.Entries() {
		if match(e) {
			n++
		}
	}
	return n
}

var (
	_ Logger = StdLogger{}
	_ Logger = Nop{}
	_ Logger = (*Recorder)(nil)
)
