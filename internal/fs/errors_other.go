//go:build !unix && !windows

package fs

func isPlatformLock(error) bool { return false }
