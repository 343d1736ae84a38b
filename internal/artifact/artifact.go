// Package artifact names backup artifacts in the backup store.
package artifact

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Layout is the second-granularity timestamp prefix of every artifact.
const Layout = "20060102_150405"

// MaxCollisions bounds the counter appended when a name is already taken.
const MaxCollisions = 999

// Artifact describes a single file within the backup store.
type Artifact struct {
	Name     string    // base name inside the store
	Original string    // base name of the source file
	Taken    time.Time // timestamp encoded in Name
	Seq      int       // collision counter, 0 for the first artifact
}

// Name returns the store name for a source file backed up at t:
// "{yyyyMMdd_HHmmss}_{name}", or "{yyyyMMdd_HHmmss}_{seq}_{name}" when seq > 0.
func Name(t time.Time, sourcePath string, seq int) string {
	base := filepath.Base(sourcePath)
	ts := t.Format(Layout)
	if seq <= 0 {
		return ts + "_" + base
	}
	return fmt.Sprintf("%s_%d_%s", ts, seq, base)
}

// Parse recovers the fields encoded by Name. The collision counter is
// ambiguous with source names starting with "<digits>_", and is only
// recognised when the counter is within MaxCollisions.
func Parse(name string) (Artifact, bool) {
	if len(name) < len(Layout)+2 || name[len(Layout)] != '_' {
		return Artifact{}, false
	}
	t, err := time.ParseInLocation(Layout, name[:len(Layout)], time.Local)
	if err != nil {
		return Artifact{}, false
	}

	a := Artifact{Name: name, Taken: t, Original: name[len(Layout)+1:]}
	if i := strings.IndexByte(a.Original, '_'); i > 0 {
		if n, err := strconv.Atoi(a.Original[:i]); err == nil && n > 0 && n <= MaxCollisions && i+1 < len(a.Original) {
			a.Seq = n
			a.Original = a.Original[i+1:]
		}
	}
	return a, true
}
