// Package firewall decides whether a host firewall is active.
//
// Each supported platform has a Strategy that knows which status command to
// run and how to read its exit code and output. Select picks exactly one
// Strategy from platform facts; a Checker runs it and fails open, reporting
// "inactive" whenever the status cannot be determined.
package firewall

import (
	"hostprobe/internal/platform"
	"hostprobe/internal/sysutil"
)

// Kind tags the Strategy variants.
type Kind int

const (
	KindGeneric Kind = iota
	KindUbuntu
	KindFedora18
	KindSuse
	KindWindows
)

func (k Kind) String() string {
	switch k {
	case KindUbuntu:
		return "ubuntu"
	case KindFedora18:
		return "fedora18"
	case KindSuse:
		return "suse"
	case KindWindows:
		return "windows"
	default:
		return "generic"
	}
}

// Strategy is one platform-specific firewall check.
type Strategy interface {
	Kind() Kind
	// ServiceName is the firewall service the check looks at.
	ServiceName() string
	// Command is the command line (or, for Windows, the script) the check runs.
	Command() string
	// Interpret reads a finished command's result.
	Interpret(res sysutil.Result) (Verdict, error)
}

// Verdict is a Strategy's reading of one command result.
type Verdict struct {
	Active          bool
	EnabledProfiles []string
	Warnings        []string
}

// Options configures the strategies built by New and Select.
type Options struct {
	// ServiceCmd is the SysV service wrapper used by the generic check.
	ServiceCmd string
	// WindowsService is the Windows firewall service name.
	WindowsService string
}

// DefaultOptions returns the stock command paths and service names.
func DefaultOptions() Options {
	return Options{
		ServiceCmd:     DefaultServiceCmd,
		WindowsService: DefaultWindowsService,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ServiceCmd == "" {
		o.ServiceCmd = d.ServiceCmd
	}
	if o.WindowsService == "" {
		o.WindowsService = d.WindowsService
	}
	return o
}

// SelectKind maps platform facts to a check. The first matching row wins:
// Windows family, then Ubuntu, then Fedora 18 or later, then the SUSE
// family, and the iptables service check for everything else.
func SelectKind(info platform.Info) Kind {
	switch {
	case info.Family == platform.FamilyWindows:
		return KindWindows
	case info.Type == platform.OSUbuntu:
		return KindUbuntu
	case info.Type == platform.OSFedora && info.MajorVersion >= 18:
		return KindFedora18
	case info.Family == platform.FamilySuse:
		return KindSuse
	default:
		return KindGeneric
	}
}

// New builds the Strategy for kind.
func New(kind Kind, opts Options) Strategy {
	opts = opts.withDefaults()
	switch kind {
	case KindUbuntu:
		return NewUbuntuCheck()
	case KindFedora18:
		return NewFedora18Check()
	case KindSuse:
		return NewSuseCheck()
	case KindWindows:
		return NewWindowsCheck(opts.WindowsService)
	default:
		return NewGenericCheck(opts.ServiceCmd)
	}
}

// Select builds the Strategy for info.
func Select(info platform.Info, opts Options) Strategy {
	return New(SelectKind(info), opts)
}
