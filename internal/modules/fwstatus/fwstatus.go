// Package fwstatus wraps the firewall check as a preflight module.
package fwstatus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"hostprobe/internal/firewall"
)

// FileName is the artifact written by Collect.
const FileName = "firewall.json"

// Module runs a firewall.Checker and records its report.
type Module struct {
	checker *firewall.Checker

	mu     sync.Mutex
	report *firewall.Report
}

// New creates the firewall module.
func New(c *firewall.Checker) *Module {
	return &Module{checker: c}
}

// Name returns the module's identifier.
func (m *Module) Name() string {
	return "firewall"
}

// Collect runs the check and writes firewall.json. The report is written even
// when the check returns an error, so the bundle shows what was seen.
func (m *Module) Collect(ctx context.Context, outDir string) error {
	report, checkErr := m.checker.Check(ctx)

	m.mu.Lock()
	m.report = &report
	m.mu.Unlock()

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, FileName), jsonData, 0644); err != nil {
		return err
	}
	return checkErr
}

// Report returns the report from the last Collect, or nil before the first.
func (m *Module) Report() *firewall.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report
}
