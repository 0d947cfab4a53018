//go:build windows

package sysutil

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// QueryStatus returns the current state of the named service.
// Only connect and query-status rights are requested, so no elevation is needed.
func (ServiceManager) QueryStatus(ctx context.Context, name string) (ServiceState, error) {
	if err := ctx.Err(); err != nil {
		return ServiceUnknown, err
	}

	scm, err := windows.OpenSCManager(nil, nil, windows.SC_MANAGER_CONNECT)
	if err != nil {
		return ServiceUnknown, fmt.Errorf("failed to connect to service control manager: %w", err)
	}
	m := &mgr.Mgr{Handle: scm}
	defer m.Disconnect()

	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return ServiceUnknown, fmt.Errorf("invalid service name %q: %w", name, err)
	}
	h, err := windows.OpenService(scm, namePtr, windows.SERVICE_QUERY_STATUS)
	if err != nil {
		return ServiceUnknown, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	s := &mgr.Service{Name: name, Handle: h}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return ServiceUnknown, fmt.Errorf("failed to query service %s: %w", name, err)
	}
	return fromSvcState(status.State), nil
}

func fromSvcState(st svc.State) ServiceState {
	switch st {
	case svc.Stopped:
		return ServiceStopped
	case svc.StartPending:
		return ServiceStartPending
	case svc.StopPending:
		return ServiceStopPending
	case svc.Running:
		return ServiceRunning
	case svc.ContinuePending:
		return ServiceContinuePending
	case svc.PausePending:
		return ServicePausePending
	case svc.Paused:
		return ServicePaused
	default:
		return ServiceUnknown
	}
}
