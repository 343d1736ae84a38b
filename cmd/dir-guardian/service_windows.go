//go:build windows

package main

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
)

func isWindowsService() bool {
	ok, err := svc.IsWindowsService()
	return err == nil && ok
}

func runService(name, configPath string) error {
	return svc.Run(name, &serviceHandler{name: name, configPath: configPath})
}

type serviceHandler struct {
	name       string
	configPath string
}

// Execute reports StartPending, Running, StopPending and Stopped to the
// service control manager around the guardian lifecycle.
func (h *serviceHandler) Execute(_ []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}

	inst, err := startInstance(context.Background(), h.configPath)
	if err != nil {
		h.reportError(fmt.Sprintf("failed to start: %v", err))
		status <- svc.Status{State: svc.Stopped}
		return false, 1
	}

	status <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

	for req := range requests {
		switch req.Cmd {
		case svc.Interrogate:
			status <- req.CurrentStatus
		case svc.Stop, svc.Shutdown:
			status <- svc.Status{State: svc.StopPending}
			code := uint32(0)
			if err := inst.stop(); err != nil {
				h.reportError(fmt.Sprintf("stop: %v", err))
				code = 2
			}
			status <- svc.Status{State: svc.Stopped}
			return false, code
		}
	}
	return false, 0
}

// reportError writes to the Windows event log, which is the only place a
// service can report a failure that happens before its own log is open.
func (h *serviceHandler) reportError(msg string) {
	elog, err := eventlog.Open(h.name)
	if err != nil {
		return
	}
	defer elog.Close()
	_ = elog.Error(1, msg)
}
