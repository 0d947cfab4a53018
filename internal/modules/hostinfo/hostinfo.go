// Package hostinfo records the platform facts the firewall check is selected from.
package hostinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"hostprobe/internal/platform"
)

// FileName is the artifact written by Collect.
const FileName = "hostinfo.json"

// HostInfo is the hostinfo probe module.
type HostInfo struct {
	provider platform.Provider
	bootTime func(ctx context.Context) (uint64, error)
	now      func() time.Time
}

// New creates a HostInfo that reads platform facts from p.
func New(p platform.Provider) *HostInfo {
	return &HostInfo{
		provider: p,
		bootTime: host.BootTimeWithContext,
		now:      time.Now,
	}
}

// Name returns the module's identifier.
func (h *HostInfo) Name() string {
	return "hostinfo"
}

// Facts is the content of hostinfo.json.
type Facts struct {
	Platform      platform.Info `json:"platform"`
	Arch          string        `json:"arch"`
	TimeUTC       string        `json:"time_utc"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	BootTimeUTC   string        `json:"boot_time_utc,omitempty"`
}

// Gather reads the facts without writing anything.
func (h *HostInfo) Gather(ctx context.Context) (Facts, error) {
	info, err := h.provider.Info(ctx)
	if err != nil {
		return Facts{}, fmt.Errorf("failed to detect platform: %w", err)
	}

	now := h.now().UTC()
	facts := Facts{
		Platform: info,
		Arch:     runtime.GOARCH,
		TimeUTC:  now.Format(time.RFC3339),
	}

	// Uptime is informational; a host that hides its boot time still gets a record.
	if boot, err := h.bootTime(ctx); err == nil && boot > 0 {
		bootTime := time.Unix(int64(boot), 0).UTC()
		facts.BootTimeUTC = bootTime.Format(time.RFC3339)
		if up := now.Sub(bootTime); up > 0 {
			facts.UptimeSeconds = int64(up.Seconds())
		}
	}
	return facts, nil
}

// Collect writes hostinfo.json to outDir.
func (h *HostInfo) Collect(ctx context.Context, outDir string) error {
	facts, err := h.Gather(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, FileName), jsonData, 0644)
}
