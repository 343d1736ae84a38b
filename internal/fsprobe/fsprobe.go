// Package fsprobe decides whether native change notifications can be used
// for a directory. Some network shares and container mounts accept a watch
// and then never deliver an event, so a watch that is merely accepted is not
// enough; where the probe may write, it touches a marker file and waits for
// the event to come back.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Timeout is how long Probe waits for the marker event.
var Timeout = 200 * time.Millisecond

const markerPrefix = ".guardian-probe-"

// Result reports whether fsnotify should be used and why.
type Result struct {
	FsnotifySupported bool
	Verified          bool   // the marker event was observed
	Reason            string // why unsupported or unverified
}

// Probe watches dir and checks that an event for a marker file arrives.
// A root the process cannot write to is reported as supported but
// unverified: the guardian only reads there, and other writers still
// produce events.
func Probe(dir string) Result {
	return probe(dir, touchMarker)
}

// touchMarker creates and removes a uniquely named file in dir.
func touchMarker(dir string) error {
	f, err := os.CreateTemp(dir, markerPrefix+"*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}

func probe(dir string, touch func(dir string) error) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{Reason: fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{Reason: "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{Reason: fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{Reason: fmt.Sprintf("watch rejected: %v", err)}
	}

	if err := touch(dir); err != nil {
		return Result{
			FsnotifySupported: true,
			Reason:            fmt.Sprintf("watch accepted, delivery not verified: %v", err),
		}
	}

	deadline := time.NewTimer(Timeout)
	defer deadline.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return Result{Reason: "watcher closed during probe"}
			}
			if strings.HasPrefix(filepath.Base(ev.Name), markerPrefix) {
				return Result{FsnotifySupported: true, Verified: true}
			}
		case err, ok := <-w.Errors:
			if ok {
				return Result{Reason: fmt.Sprintf("watch error: %v", err)}
			}
		case <-deadline.C:
			return Result{Reason: fmt.Sprintf("no event delivered within %s", Timeout)}
		}
	}
}
