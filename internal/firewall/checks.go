package firewall

import (
	"fmt"
	"slices"
	"strings"

	"hostprobe/internal/sysutil"
)

const (
	// DefaultServiceCmd is the SysV service wrapper.
	DefaultServiceCmd = "/sbin/service"

	iptablesService  = "iptables"
	ufwService       = "ufw"
	suseService      = "SuSEfirewall2"
	statusSubcommand = "status"

	// exit status of "service iptables status" when the service is stopped
	exitServiceStopped = 3
)

// GenericCheck asks the SysV service wrapper for the iptables status.
type GenericCheck struct {
	ServiceCmd string
	Service    string
	Subcommand string
}

func NewGenericCheck(serviceCmd string) *GenericCheck {
	if serviceCmd == "" {
		serviceCmd = DefaultServiceCmd
	}
	return &GenericCheck{ServiceCmd: serviceCmd, Service: iptablesService, Subcommand: statusSubcommand}
}

func (c *GenericCheck) Kind() Kind          { return KindGeneric }
func (c *GenericCheck) ServiceName() string { return c.Service }

func (c *GenericCheck) Command() string {
	return fmt.Sprintf("%s %s %s", c.ServiceCmd, c.Service, c.Subcommand)
}

// Interpret treats exit 3 as stopped and exit 0 with a filter table listing as active.
func (c *GenericCheck) Interpret(res sysutil.Result) (Verdict, error) {
	switch res.ExitCode {
	case exitServiceStopped:
		return Verdict{}, nil
	case 0:
		return Verdict{Active: strings.Contains(res.Stdout, "Table: filter")}, nil
	default:
		return Verdict{}, nil
	}
}

// UbuntuCheck reads "ufw status".
type UbuntuCheck struct {
	Service    string
	Subcommand string
}

func NewUbuntuCheck() *UbuntuCheck {
	return &UbuntuCheck{Service: ufwService, Subcommand: statusSubcommand}
}

func (c *UbuntuCheck) Kind() Kind          { return KindUbuntu }
func (c *UbuntuCheck) ServiceName() string { return c.Service }

func (c *UbuntuCheck) Command() string {
	return fmt.Sprintf("%s %s", c.Service, c.Subcommand)
}

// Interpret relies on the text only: ufw exits 0 whether or not it is enabled.
func (c *UbuntuCheck) Interpret(res sysutil.Result) (Verdict, error) {
	if res.ExitCode != 0 {
		return Verdict{}, nil
	}
	switch {
	case strings.Contains(res.Stdout, "Status: inactive"):
		return Verdict{}, nil
	case strings.Contains(res.Stdout, "Status: active"):
		return Verdict{Active: true}, nil
	default:
		return Verdict{}, nil
	}
}

// Fedora18Check asks systemd whether the iptables unit is active.
type Fedora18Check struct {
	Service string
}

func NewFedora18Check() *Fedora18Check {
	return &Fedora18Check{Service: iptablesService}
}

func (c *Fedora18Check) Kind() Kind          { return KindFedora18 }
func (c *Fedora18Check) ServiceName() string { return c.Service }

func (c *Fedora18Check) Command() string {
	return fmt.Sprintf("systemctl is-active %s", c.Service)
}

// Interpret requires exit 0 and the word "active". Matching whole words keeps
// "inactive" from counting as active.
func (c *Fedora18Check) Interpret(res sysutil.Result) (Verdict, error) {
	if res.ExitCode != 0 {
		return Verdict{}, nil
	}
	return Verdict{Active: slices.Contains(strings.Fields(res.Stdout), "active")}, nil
}

// SuseCheck reads "SuSEfirewall2 status".
type SuseCheck struct {
	Service    string
	Subcommand string
}

func NewSuseCheck() *SuseCheck {
	return &SuseCheck{Service: suseService, Subcommand: statusSubcommand}
}

func (c *SuseCheck) Kind() Kind          { return KindSuse }
func (c *SuseCheck) ServiceName() string { return c.Service }

func (c *SuseCheck) Command() string {
	return fmt.Sprintf("%s %s", c.Service, c.Subcommand)
}

// Interpret checks the "not active" banner before looking for rule tables.
func (c *SuseCheck) Interpret(res sysutil.Result) (Verdict, error) {
	if res.ExitCode != 0 {
		return Verdict{}, nil
	}
	switch {
	case strings.Contains(res.Stdout, "SuSEfirewall2 not active"):
		return Verdict{}, nil
	case strings.Contains(res.Stdout, "### iptables"):
		return Verdict{Active: true}, nil
	default:
		return Verdict{}, nil
	}
}
