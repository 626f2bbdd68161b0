// Package manager runs one sweep: scan, report and the removals the user
// authorized.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fenilsonani/venvsweep/internal/cleaner"
	"github.com/fenilsonani/venvsweep/internal/config"
	"github.com/fenilsonani/venvsweep/internal/reporter"
	"github.com/fenilsonani/venvsweep/internal/scanner"
	"github.com/fenilsonani/venvsweep/internal/ui"
	"github.com/fenilsonani/venvsweep/internal/ui/styles"
)

// Scanner finds environments beneath a root
type Scanner interface {
	Scan(ctx context.Context, root string, filter scanner.Filter) (*scanner.Result, error)
}

// Remover deletes one environment
type Remover interface {
	Remove(path string) error
}

// ScanRunner runs a scan, typically behind a progress display
type ScanRunner func(ctx context.Context, scan ui.ScanFunc) (*scanner.Result, error)

// Options configures a Manager
type Options struct {
	Config  *config.Config
	Scanner Scanner
	Remover Remover
	Out     io.Writer // report
	ErrOut  io.Writer // removal failures
	Logger  *slog.Logger
	RunScan ScanRunner // nil runs the scan directly
	Now     func() time.Time
}

// Manager coordinates a single run
type Manager struct {
	cfg     *config.Config
	scanner Scanner
	remover Remover
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	runScan ScanRunner
	now     func() time.Time
}

// New creates a Manager
func New(opts Options) *Manager {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefault()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runScan := opts.RunScan
	if runScan == nil {
		runScan = func(ctx context.Context, scan ui.ScanFunc) (*scanner.Result, error) {
			return scan(ctx)
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		cfg:     cfg,
		scanner: opts.Scanner,
		remover: opts.Remover,
		out:     out,
		errOut:  errOut,
		logger:  logger,
		runScan: runScan,
		now:     now,
	}
}

// Run scans root, reports what it found and removes what the configuration
// authorizes. Failed removals are reported but do not fail the run.
func (m *Manager) Run(ctx context.Context, root string) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	format, err := reporter.ParseFormat(m.cfg.Output)
	if err != nil {
		return err
	}
	rep := reporter.New(m.out, format)

	// Structured formats keep stdout parseable; chatter goes to stderr
	chatter := m.out
	if !rep.Streams() {
		chatter = m.errOut
	}
	st := styles.New(chatter)

	if m.cfg.Verbose {
		fmt.Fprintf(chatter, "Scanning %s for virtual environments...\n", root)
		if m.cfg.OlderThan != nil {
			fmt.Fprintf(chatter, "Looking for environments older than %s\n",
				st.Warning.Render(fmt.Sprintf("%d days", *m.cfg.OlderThan)))
		}
	}

	filter := scanner.Filter{OlderThan: m.cfg.OlderThan}
	result, err := m.runScan(ctx, func(ctx context.Context) (*scanner.Result, error) {
		return m.scanner.Scan(ctx, root, filter)
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if m.cfg.Verbose {
		fmt.Fprintf(chatter, "\n%s\n",
			st.Success.Render(fmt.Sprintf("Scan complete! Found %d virtual environments.", len(result.Records))))
	}

	report := &reporter.Report{
		Root:         root,
		GeneratedAt:  m.now(),
		OlderThan:    m.cfg.OlderThan,
		DryRun:       m.cfg.IsDryRun(),
		ListPackages: m.cfg.ListPackages,
		Records:      result.Records,
		Summary:      reporter.Summarize(result.Records),
		Warnings:     len(result.Warnings),
	}

	if len(report.Records) == 0 {
		if rep.Streams() {
			return rep.NoEnvironments()
		}
		return rep.Report(report)
	}

	var failures []*cleaner.DeletionError
	for _, rec := range report.Records {
		if rep.Streams() {
			if err := rep.WriteRecord(rec, report.ListPackages); err != nil {
				return err
			}
		}

		kind, ok := m.removalKind(rec)
		if !ok {
			continue
		}

		removal, err := m.remove(rec, kind)
		report.Removals = append(report.Removals, removal)
		var delErr *cleaner.DeletionError
		if errors.As(err, &delErr) {
			failures = append(failures, delErr)
		}

		if rep.Streams() {
			if err := rep.WriteRemoval(removal); err != nil {
				return err
			}
		}
	}

	if rep.Streams() {
		if err := rep.WriteFooter(report); err != nil {
			return err
		}
	} else if err := rep.Report(report); err != nil {
		return err
	}

	if len(failures) > 0 {
		fmt.Fprint(m.errOut, cleaner.FormatErrorSummary(failures))
	}

	return nil
}

// removalKind decides whether rec is to be removed and why. Broken
// environments go under --remove-broken; with --remove every listed
// environment is already past the age threshold.
func (m *Manager) removalKind(rec scanner.Record) (reporter.RemovalKind, bool) {
	switch {
	case rec.Broken && m.cfg.RemoveBroken:
		return reporter.RemovalBroken, true
	case m.cfg.Remove && m.cfg.OlderThan != nil:
		return reporter.RemovalStale, true
	default:
		return "", false
	}
}

func (m *Manager) remove(rec scanner.Record, kind reporter.RemovalKind) (reporter.Removal, error) {
	removal := reporter.Removal{Path: rec.Path, Kind: kind}

	if m.remover == nil {
		err := fmt.Errorf("no remover configured")
		removal.Error = err.Error()
		return removal, err
	}

	err := m.remover.Remove(rec.Path)
	if err != nil {
		removal.Error = err.Error()

		var delErr *cleaner.DeletionError
		if errors.As(err, &delErr) {
			fmt.Fprintf(m.errOut, "Failed to remove: %s\n", delErr.UserMessage())
		} else {
			fmt.Fprintf(m.errOut, "Failed to remove %s: %v\n", rec.Path, err)
		}
		return removal, err
	}

	m.logger.Info("removed environment", "path", rec.Path, "kind", kind, "size_bytes", rec.SizeBytes)
	removal.Removed = true
	return removal, nil
}
