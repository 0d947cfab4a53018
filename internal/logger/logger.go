// Package logger configures the go-logging logger shared by hostprobe commands.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Module is the go-logging module name every hostprobe logger uses.
const Module = "hostprobe"

const format = `%{time:2006/01/02 15:04:05} %{level} - %{message}`

var (
	mu            sync.RWMutex
	defaultLogger *logging.Logger
)

// ParseLevel converts a level name such as "info" or "warning" to a go-logging level.
// "warn" is accepted as an alias for "warning".
func ParseLevel(name string) (logging.Level, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warn") {
		name = "warning"
	}
	level, err := logging.LogLevel(name)
	if err != nil {
		return logging.INFO, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// New builds a logger that writes formatted records at or above level to w.
func New(w io.Writer, level string) (*logging.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, Module)

	l := logging.MustGetLogger(Module)
	l.SetBackend(leveled)
	return l, nil
}

// Init replaces the default logger.
func Init(w io.Writer, level string) error {
	l, err := New(w, level)
	if err != nil {
		return err
	}
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

// Default returns the process-wide logger, writing to stderr at info level
// until Init is called.
func Default() *logging.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger, _ = New(os.Stderr, "info")
	}
	return defaultLogger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logging.Logger {
	l, _ := New(io.Discard, "critical")
	return l
}

func Debugf(format string, args ...any) {
	Default().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	Default().Infof(format, args...)
}

func Warningf(format string, args ...any) {
	Default().Warningf(format, args...)
}

func Errorf(format string, args ...any) {
	Default().Errorf(format, args...)
}
