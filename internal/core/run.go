// Package core runs hostprobe's probe modules and packages their output.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/op/go-logging"

	"hostprobe/internal/logger"
)

// Module is one probe in a preflight run.
type Module interface {
	// Name identifies the module in results and names its output directory.
	Name() string
	// Collect runs the probe and writes its artifacts to outDir.
	Collect(ctx context.Context, outDir string) error
}

// Result captures the execution result of a single module.
type Result struct {
	Module    string    `json:"name"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error"`
	StartedAt time.Time `json:"started_utc"`
	EndedAt   time.Time `json:"ended_utc"`
}

// Clock provides time functions for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Run executes registered modules on a bounded pool of goroutines, each
// under its own timeout.
type Run struct {
	modules       []Module
	parallelism   int
	moduleTimeout time.Duration
	artifactsDir  string
	clock         Clock
	logger        *logging.Logger
}

// NewRun creates a Run. parallelism below 1 is raised to 1.
func NewRun(parallelism int, moduleTimeout time.Duration, artifactsDir string, clock Clock, log *logging.Logger) *Run {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	if parallelism < 1 {
		parallelism = 1
	}

	return &Run{
		parallelism:   parallelism,
		moduleTimeout: moduleTimeout,
		artifactsDir:  artifactsDir,
		clock:         clock,
		logger:        log,
	}
}

// Register adds a module to the execution list.
func (r *Run) Register(m Module) {
	r.modules = append(r.modules, m)
}

// Names returns the registered module names in registration order.
func (r *Run) Names() []string {
	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.Name()
	}
	return names
}

// CollectAll runs every registered module and returns one Result per module
// in registration order. The error summarises failed modules; results are
// returned either way.
func (r *Run) CollectAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(r.modules))
	if len(r.modules) == 0 {
		return results, nil
	}

	semaphore := make(chan struct{}, r.parallelism)
	var wg sync.WaitGroup

	for i, module := range r.modules {
		wg.Add(1)
		go func(i int, m Module) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = r.executeModule(ctx, m)
		}(i, module)
	}
	wg.Wait()

	var firstError error
	errorCount := 0
	for _, result := range results {
		if result.OK {
			continue
		}
		if firstError == nil {
			firstError = fmt.Errorf("module %s failed: %s", result.Module, result.Error)
		}
		errorCount++
	}

	switch {
	case errorCount == 0:
		return results, nil
	case errorCount == 1:
		return results, firstError
	default:
		return results, fmt.Errorf("%w (and %d other module errors)", firstError, errorCount-1)
	}
}

// executeModule runs a single module with timeout and error handling.
func (r *Run) executeModule(parentCtx context.Context, module Module) Result {
	result := Result{
		Module:    module.Name(),
		StartedAt: r.clock.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(parentCtx, r.moduleTimeout)
	defer cancel()

	moduleDir := filepath.Join(r.artifactsDir, SanitizeName(module.Name()))
	if err := os.MkdirAll(moduleDir, 0755); err != nil {
		result.Error = fmt.Sprintf("failed to create module directory: %v", err)
		result.EndedAt = r.clock.Now().UTC()
		return result
	}

	err := module.Collect(ctx, moduleDir)
	result.EndedAt = r.clock.Now().UTC()
	if err != nil {
		r.logger.Warningf("Module %s failed: %v", module.Name(), err)
		result.Error = err.Error()
		return result
	}

	r.logger.Infof("Module %s completed", module.Name())
	result.OK = true
	return result
}
