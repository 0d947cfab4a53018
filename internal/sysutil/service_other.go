//go:build !windows

package sysutil

import "context"

// QueryStatus always fails outside Windows.
func (ServiceManager) QueryStatus(ctx context.Context, name string) (ServiceState, error) {
	return ServiceUnknown, ErrServiceControlUnsupported
}
