package fs

import (
	"errors"
	"fmt"
)

// ErrLocked marks a failure caused by another process holding the file.
// Platform lock errors are recognised as well; see isPlatformLock.
var ErrLocked = errors.New("file is locked by another process")

// IsLocked reports whether err is a transient lock failure that is worth
// retrying.
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrLocked) || isPlatformLock(err)
}

// RetryExhaustedError is returned when an operation kept failing with a lock
// error until the attempt budget ran out.
type RetryExhaustedError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }
