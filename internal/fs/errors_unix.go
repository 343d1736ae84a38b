//go:build unix

package fs

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isPlatformLock(err error) bool {
	return errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY)
}
