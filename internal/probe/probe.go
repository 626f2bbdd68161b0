// Package probe checks an environment's health by asking its interpreter for
// the installed package list.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// PipListArgs are passed to the interpreter to list packages as JSON
var PipListArgs = []string{"-m", "pip", "list", "--format", "json"}

// Locator resolves the interpreter of an environment
type Locator interface {
	LocateInterpreter(envPath string) string
}

// Options configures a Prober
type Options struct {
	Runner  Runner
	Timeout time.Duration // zero means no limit
	Logger  *slog.Logger
}

// Prober runs the package listing for environments, one at a time
type Prober struct {
	locator Locator
	runner  Runner
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Prober
func New(locator Locator, opts Options) *Prober {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Prober{
		locator: locator,
		runner:  runner,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Probe lists the packages installed in the environment at envPath. Every
// failure is returned inside the Result; Probe never fails on its own.
func (p *Prober) Probe(ctx context.Context, envPath string) Result {
	interp := p.locator.LocateInterpreter(envPath)

	if _, err := os.Stat(interp); err != nil {
		p.logger.Warn("environment has no usable python executable",
			"path", envPath, "interpreter", interp)
		return failed(interp, FailureMissingInterpreter, err)
	}

	result := p.run(ctx, interp)
	if result.Broken() {
		p.logger.Warn("failed to get package list",
			"path", envPath, "reason", result.Reason())
	}
	return result
}

func (p *Prober) run(ctx context.Context, interp string) Result {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	output, err := p.runner.Run(ctx, interp, PipListArgs...)
	if err != nil {
		return failed(interp, classify(ctx, err), err)
	}

	packages, err := ParsePipList(output)
	if err != nil {
		return failed(interp, FailureMalformedOutput, err)
	}

	return Result{Interpreter: interp, Packages: packages}
}

func classify(ctx context.Context, err error) FailureKind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return FailureTimeout
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return FailureExit
	}

	var execErr *exec.Error
	var pathErr *os.PathError
	if errors.As(err, &execErr) || errors.As(err, &pathErr) {
		return FailureLaunch
	}

	return FailureUnknown
}

// ParsePipList decodes the output of pip list --format json, preserving order
func ParsePipList(data []byte) ([]Package, error) {
	var raw []struct {
		Name    *string `json:"name"`
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse package list: %w", err)
	}

	packages := make([]Package, 0, len(raw))
	for i, entry := range raw {
		if entry.Name == nil || entry.Version == nil {
			return nil, fmt.Errorf("package list entry %d lacks name or version", i)
		}
		packages = append(packages, Package{Name: *entry.Name, Version: *entry.Version})
	}

	return packages, nil
}
