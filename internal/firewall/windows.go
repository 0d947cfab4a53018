package firewall

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"hostprobe/internal/sysutil"
)

// DefaultWindowsService is the Windows Defender Firewall service.
const DefaultWindowsService = "MpsSvc"

// Profile names in the order CheckFirewallScript prints them.
var profileNames = [...]string{"DomainProfile", "StandardProfile", "PublicProfile"}

// CheckFirewallScript prints the EnableFirewall value of the domain, standard
// and public profiles, one per line.
const CheckFirewallScript = `$ErrorActionPreference = "Stop"
$policy = "HKLM:\SYSTEM\CurrentControlSet\Services\SharedAccess\Parameters\FirewallPolicy"
foreach ($profile in "DomainProfile", "StandardProfile", "PublicProfile") {
    Write-Output (Get-ItemProperty -Path "$policy\$profile" -Name EnableFirewall).EnableFirewall
}
`

// ErrProfileOutput is returned when the profile script reports an enabled
// profile but prints fewer values than there are profiles.
var ErrProfileOutput = errors.New("unexpected firewall profile output")

// WindowsCheck first asks the service control manager whether the firewall
// service runs and, only if it does, reads the per-profile switches.
type WindowsCheck struct {
	Service string
	Script  string
}

func NewWindowsCheck(service string) *WindowsCheck {
	if service == "" {
		service = DefaultWindowsService
	}
	return &WindowsCheck{Service: service, Script: CheckFirewallScript}
}

func (c *WindowsCheck) Kind() Kind          { return KindWindows }
func (c *WindowsCheck) ServiceName() string { return c.Service }
func (c *WindowsCheck) Command() string     { return c.Script }

// Interpret reads one 0/1 token per profile. A stopped service arrives here
// as exit 0 with empty output and reads as inactive.
func (c *WindowsCheck) Interpret(res sysutil.Result) (Verdict, error) {
	if res.ExitCode != 0 {
		return Verdict{
			Warnings: []string{fmt.Sprintf("Unable to check firewall status:%s", res.Stderr)},
		}, nil
	}

	tokens := profileTokens(res.Stdout)
	if !slices.Contains(tokens, "1") {
		return Verdict{}, nil
	}
	if len(tokens) < len(profileNames) {
		return Verdict{}, fmt.Errorf("%w: got %d values, want %d", ErrProfileOutput, len(tokens), len(profileNames))
	}

	var enabled []string
	for i, name := range profileNames {
		if tokens[i] == "1" {
			enabled = append(enabled, name)
		}
	}
	return Verdict{
		Active:          true,
		EnabledProfiles: enabled,
		Warnings: []string{fmt.Sprintf(
			"Following firewall profiles are enabled:%s. Make sure that the firewall is properly configured.",
			strings.Join(enabled, ","))},
	}, nil
}

// profileTokens splits script output into non-empty lines. Lines are trimmed
// because PowerShell terminates them with CRLF.
func profileTokens(out string) []string {
	var tokens []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tokens = append(tokens, line)
		}
	}
	return tokens
}
