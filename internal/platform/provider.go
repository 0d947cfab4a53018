package platform

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/host"
)

// Provider supplies platform facts.
type Provider interface {
	Info(ctx context.Context) (Info, error)
}

// HostProvider reads platform facts from the running host through gopsutil.
type HostProvider struct{}

// Info queries the host. gopsutil may return partial data together with an
// error; partial data is accepted as long as the OS is known.
func (HostProvider) Info(ctx context.Context) (Info, error) {
	hi, err := host.InfoWithContext(ctx)
	if hi == nil || (err != nil && hi.OS == "") {
		return Info{}, fmt.Errorf("failed to read host information: %w", err)
	}
	return FromHostInfo(hi), nil
}

// FromHostInfo converts a gopsutil InfoStat.
func FromHostInfo(hi *host.InfoStat) Info {
	info := Normalize(hi.OS, hi.Platform, hi.PlatformFamily, hi.PlatformVersion)
	info.Kernel = hi.KernelVersion
	info.Hostname = hi.Hostname
	return info
}

// Static is a Provider that always returns the same facts.
type Static Info

// Info returns s.
func (s Static) Info(ctx context.Context) (Info, error) {
	return Info(s), nil
}

// Override replaces selected facts from Base. When Type, Family and
// MajorVersion are all set, Base is not consulted at all.
type Override struct {
	Base         Provider
	Type         OSType
	Family       Family
	MajorVersion int
}

// Info returns Base's facts with the configured overrides applied.
func (o Override) Info(ctx context.Context) (Info, error) {
	var info Info
	if o.Base != nil && !o.complete() {
		var err error
		info, err = o.Base.Info(ctx)
		if err != nil {
			return Info{}, err
		}
	}

	if o.Type != "" {
		info.Type = o.Type
		if o.Family == "" {
			info.Family = FamilyForType(o.Type)
		}
	}
	if o.Family != "" {
		info.Family = o.Family
	}
	if o.MajorVersion > 0 {
		info.MajorVersion = o.MajorVersion
	}
	if info.Type == "" {
		info.Type = OSUnknown
	}
	if info.Family == "" {
		info.Family = FamilyOther
	}
	return info, nil
}

// Empty reports whether o overrides nothing.
func (o Override) Empty() bool {
	return o.Type == "" && o.Family == "" && o.MajorVersion == 0
}

func (o Override) complete() bool {
	return o.Type != "" && o.Family != "" && o.MajorVersion > 0
}
