package firewall

import (
	"context"
	"fmt"
	"time"

	"github.com/op/go-logging"

	"hostprobe/internal/logger"
	"hostprobe/internal/sysutil"
)

// CommandRunner executes a command line.
type CommandRunner interface {
	Run(ctx context.Context, command string) (sysutil.Result, error)
}

// ScriptRunner executes a PowerShell script.
type ScriptRunner interface {
	RunScript(ctx context.Context, script string) (sysutil.Result, error)
}

// ServiceController reports the run state of a Windows service.
type ServiceController interface {
	QueryStatus(ctx context.Context, name string) (sysutil.ServiceState, error)
}

// Report is the outcome of one firewall check.
type Report struct {
	Strategy        string    `json:"strategy"`
	Service         string    `json:"service"`
	Command         string    `json:"command"`
	Active          bool      `json:"active"`
	ExitCode        int       `json:"exit_code"`
	EnabledProfiles []string  `json:"enabled_profiles,omitempty"`
	Warnings        []string  `json:"warnings,omitempty"`
	Error           string    `json:"error,omitempty"`
	CheckedAt       time.Time `json:"checked_utc"`
}

// Checker runs one Strategy against the host. It holds no state between
// checks, so repeated checks of an unchanged host give the same answer.
type Checker struct {
	strategy Strategy
	commands CommandRunner
	scripts  ScriptRunner
	services ServiceController
	logger   *logging.Logger
	now      func() time.Time
}

// Option customises a Checker.
type Option func(*Checker)

func WithCommandRunner(r CommandRunner) Option {
	return func(c *Checker) { c.commands = r }
}

func WithScriptRunner(r ScriptRunner) Option {
	return func(c *Checker) { c.scripts = r }
}

func WithServiceController(s ServiceController) Option {
	return func(c *Checker) { c.services = s }
}

func WithLogger(l *logging.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// NewChecker creates a Checker for s. Without options it runs real commands,
// PowerShell and the Windows service control manager.
func NewChecker(s Strategy, opts ...Option) *Checker {
	c := &Checker{
		strategy: s,
		commands: sysutil.Shell{},
		scripts:  sysutil.PowerShell{},
		services: sysutil.ServiceManager{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Default()
	}
	return c
}

// Strategy returns the check this Checker runs.
func (c *Checker) Strategy() Strategy {
	return c.strategy
}

// Check runs the status query and interprets it.
//
// Failures to run the query at all are logged and reported as an inactive
// firewall with Report.Error set; they are never returned. The only error
// returned is a Strategy refusing to interpret malformed output, in which
// case the report is also inactive.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	s := c.strategy
	report := Report{
		Strategy:  s.Kind().String(),
		Service:   s.ServiceName(),
		Command:   commandLine(s),
		CheckedAt: c.now().UTC(),
	}

	res, err := c.probe(ctx)
	if err != nil {
		c.logger.Warningf("Unable to run firewall status check (%s): %v", report.Command, err)
		report.Error = err.Error()
		return report, nil
	}
	report.ExitCode = res.ExitCode

	verdict, err := s.Interpret(res)
	for _, w := range verdict.Warnings {
		c.logger.Warning(w)
	}
	report.Warnings = verdict.Warnings
	if err != nil {
		report.Error = err.Error()
		return report, fmt.Errorf("%s firewall check: %w", report.Strategy, err)
	}

	report.Active = verdict.Active
	report.EnabledProfiles = verdict.EnabledProfiles
	c.logger.Debugf("Firewall check %s: service=%s exit=%d active=%t",
		report.Strategy, report.Service, report.ExitCode, report.Active)
	return report, nil
}

// Active reports whether the firewall is active. Every error resolves to false.
func (c *Checker) Active(ctx context.Context) bool {
	report, err := c.Check(ctx)
	if err != nil {
		c.logger.Warningf("Unable to determine firewall status: %v", err)
		return false
	}
	return report.Active
}

// probe runs the query for the strategy. The Windows check consults the
// service control manager first and skips the script when the firewall
// service is not running.
func (c *Checker) probe(ctx context.Context) (sysutil.Result, error) {
	switch s := c.strategy.(type) {
	case *WindowsCheck:
		state, err := c.services.QueryStatus(ctx, s.Service)
		if err != nil {
			return sysutil.Result{}, err
		}
		if state != sysutil.ServiceRunning {
			c.logger.Debugf("Service %s is %s, skipping profile check", s.Service, state)
			return sysutil.Result{}, nil
		}
		return c.scripts.RunScript(ctx, s.Script)
	default:
		return c.commands.Run(ctx, s.Command())
	}
}

func commandLine(s Strategy) string {
	if w, ok := s.(*WindowsCheck); ok {
		return fmt.Sprintf("query %s; powershell firewall profile script", w.Service)
	}
	return s.Command()
}
