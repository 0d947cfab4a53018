package sysutil

import "errors"

// ErrServiceControlUnsupported is returned by ServiceManager on platforms
// without a Windows service control manager.
var ErrServiceControlUnsupported = errors.New("service control manager is not available on this platform")

// ServiceState is the run state reported by the service control manager.
type ServiceState int

const (
	ServiceUnknown ServiceState = iota
	ServiceStopped
	ServiceStartPending
	ServiceStopPending
	ServiceRunning
	ServiceContinuePending
	ServicePausePending
	ServicePaused
)

func (s ServiceState) String() string {
	switch s {
	case ServiceStopped:
		return "stopped"
	case ServiceStartPending:
		return "start_pending"
	case ServiceStopPending:
		return "stop_pending"
	case ServiceRunning:
		return "running"
	case ServiceContinuePending:
		return "continue_pending"
	case ServicePausePending:
		return "pause_pending"
	case ServicePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ServiceManager queries service state from the operating system.
type ServiceManager struct{}
