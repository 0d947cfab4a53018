// Package sysutil provides process execution and service-control helpers for hostprobe.
package sysutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned when a command line has no program to run.
var ErrEmptyCommand = errors.New("empty command")

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode  int    `json:"exit_code"`
	Stdout    string `json:"stdout"`
	Stderr    string `json:"stderr"`
	Truncated bool   `json:"truncated,omitempty"`
}

// ExecWithContext executes a command with context support and captures its output.
// A non-zero exit is reported through Result.ExitCode, not as an error. The error
// return is reserved for commands that could not be run or were cut short:
// missing executable, permission denied, or a cancelled context.
func ExecWithContext(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout := newCappedBuffer(DefaultMaxOutputBytes)
	stderr := newCappedBuffer(DefaultMaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	res := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s interrupted: %w", name, ctx.Err())
	}
	return res, fmt.Errorf("failed to run %s: %w", name, err)
}

// Shell runs command lines by splitting them on whitespace. No shell is
// involved, so quoting, globbing and pipes are not interpreted.
type Shell struct{}

// Run executes command and returns its exit code and output.
func (Shell) Run(ctx context.Context, command string) (Result, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Result{}, ErrEmptyCommand
	}
	return ExecWithContext(ctx, fields[0], fields[1:]...)
}
