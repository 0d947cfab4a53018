package sysutil

import (
	"context"
	"fmt"
	"os"
)

// DefaultPowerShell is the PowerShell executable used when none is configured.
const DefaultPowerShell = "powershell"

// PowerShell runs scripts through a PowerShell executable. The script is
// written to a temporary .ps1 file and executed with -File.
type PowerShell struct {
	Binary string
}

// RunScript executes script and returns its exit code and output.
func (p PowerShell) RunScript(ctx context.Context, script string) (Result, error) {
	binary := p.Binary
	if binary == "" {
		binary = DefaultPowerShell
	}

	f, err := os.CreateTemp("", "hostprobe_*.ps1")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create script file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return Result{}, fmt.Errorf("failed to write script file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to close script file: %w", err)
	}

	return ExecWithContext(ctx, binary,
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-File", f.Name())
}
