//go:build !windows

package main

import "errors"

func isWindowsService() bool { return false }

func runService(string, string) error {
	return errors.New("service mode is only available on windows")
}
