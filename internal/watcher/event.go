package watcher

import "time"

// Kind classifies a filesystem change.
type Kind int

const (
	Created Kind = iota + 1
	Changed
	Deleted
	Renamed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Event is one observed change under the monitored root. PreviousPath is
// only set for Renamed.
type Event struct {
	Path         string
	Kind         Kind
	PreviousPath string
	ObservedAt   time.Time
}
