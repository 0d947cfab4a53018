// Package schema defines the JSON documents hostprobe prints.
package schema

import (
	"time"

	"hostprobe/internal/core"
	"hostprobe/internal/firewall"
	"hostprobe/internal/platform"
)

// FirewallOutput is printed by "hostprobe firewall --format json".
type FirewallOutput struct {
	Command  string          `json:"command"`
	Platform platform.Info   `json:"platform"`
	Report   firewall.Report `json:"report"`
}

// NewFirewallOutput wraps a firewall report with the platform it was selected for.
func NewFirewallOutput(info platform.Info, report firewall.Report) *FirewallOutput {
	return &FirewallOutput{
		Command:  "firewall",
		Platform: info,
		Report:   report,
	}
}

// PlatformOutput is printed by "hostprobe platform".
type PlatformOutput struct {
	Command  string        `json:"command"`
	Platform platform.Info `json:"platform"`
	Strategy string        `json:"strategy"`
	Service  string        `json:"service"`
}

// RunOutput is printed by "hostprobe preflight".
type RunOutput struct {
	Command         string           `json:"command"`
	RunID           string           `json:"run_id"`
	ArtifactsDir    string           `json:"artifacts_dir"`
	ArchivePath     string           `json:"archive_path"`
	Encrypted       bool             `json:"encrypted"`
	AgeRecipientSet bool             `json:"age_recipient_set"`
	Parallelism     int              `json:"parallelism"`
	ModuleTimeout   string           `json:"module_timeout"`
	ModulesRun      []string         `json:"modules_run"`
	ModuleResults   []core.Result    `json:"module_results"`
	FileCount       int              `json:"file_count"`
	BytesWritten    int64            `json:"bytes_written"`
	TimestampUTC    string           `json:"timestamp_utc"`
	Platform        *platform.Info   `json:"platform,omitempty"`
	Firewall        *firewall.Report `json:"firewall,omitempty"`
}

// NewRunOutput creates a RunOutput for a finished preflight run.
func NewRunOutput(
	runID string,
	artifactsDir string,
	pkg *core.PackageMetadata,
	ageRecipientSet bool,
	parallelism int,
	moduleTimeout time.Duration,
	modulesRun []string,
	moduleResults []core.Result,
	timestamp time.Time,
) *RunOutput {
	out := &RunOutput{
		Command:         "preflight",
		RunID:           runID,
		ArtifactsDir:    artifactsDir,
		AgeRecipientSet: ageRecipientSet,
		Parallelism:     parallelism,
		ModuleTimeout:   moduleTimeout.String(),
		ModulesRun:      modulesRun,
		ModuleResults:   moduleResults,
		TimestampUTC:    timestamp.UTC().Format(time.RFC3339),
	}
	if pkg != nil {
		out.ArchivePath = pkg.Path
		out.Encrypted = pkg.Encrypted
		out.FileCount = pkg.FileCount
		out.BytesWritten = pkg.BytesWritten
	}
	return out
}
