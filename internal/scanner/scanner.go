// Package scanner walks a directory tree and collects the Python virtual
// environments beneath it.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fenilsonani/venvsweep/internal/probe"
	"github.com/fenilsonani/venvsweep/internal/progress"
)

// ErrNotDirectory is returned when the scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// countReportInterval is how many entries CountEntries walks between progress updates
const countReportInterval = 256

// Detector recognizes environment directories
type Detector interface {
	IsEnvironment(path string) bool
}

// Prober retrieves an environment's package list
type Prober interface {
	Probe(ctx context.Context, envPath string) probe.Result
}

// Options configures a Scanner
type Options struct {
	Detector Detector
	Prober   Prober
	Logger   *slog.Logger
	Now      func() time.Time // clock used for ages, time.Now when nil

	// CountFirst runs CountEntries before scanning so progress has a total
	CountFirst bool
}

// Scanner finds environments one directory at a time. Probes run
// synchronously inside the walk.
type Scanner struct {
	detector         Detector
	prober           Prober
	logger           *slog.Logger
	now              func() time.Time
	countFirst       bool
	progressReporter *progress.ProgressReporter
}

// New creates a new Scanner
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Scanner{
		detector:         opts.Detector,
		prober:           opts.Prober,
		logger:           logger,
		now:              now,
		countFirst:       opts.CountFirst,
		progressReporter: progress.NewProgressReporter(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.ProgressReporter) {
	s.progressReporter = pr
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.ProgressReporter {
	return s.progressReporter
}

// ResolveRoot returns the absolute, symlink-free form of root and checks
// that it is a directory
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("cannot scan %s: %w", abs, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("cannot scan %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("cannot scan %s: %w", resolved, ErrNotDirectory)
	}

	return resolved, nil
}

// CountEntries counts the entries beneath root, the root itself excluded.
// Unreadable directories contribute what could be listed.
func (s *Scanner) CountEntries(ctx context.Context, root string) (int, error) {
	root, err := ResolveRoot(root)
	if err != nil {
		return 0, err
	}

	startTime := time.Now()
	count := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || path == root {
			return nil
		}

		count++
		if count%countReportInterval == 0 {
			s.reportScanProgress(&progress.ScanProgress{
				Phase:       progress.PhaseCounting,
				CurrentPath: path,
				Total:       count,
				StartTime:   startTime,
			})
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	s.reportScanProgress(&progress.ScanProgress{
		Phase:     progress.PhaseCounting,
		Total:     count,
		StartTime: startTime,
	})

	return count, nil
}

// Scan walks root depth-first and returns a Record for every environment
// that passes filter.
//
// Descent continues below an environment, so an environment nested inside
// another is reported on its own as well.
func (s *Scanner) Scan(ctx context.Context, root string, filter Filter) (*Result, error) {
	root, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	total := 0
	if s.countFirst {
		if total, err = s.CountEntries(ctx, root); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Records:  []Record{},
		Warnings: []error{},
	}

	startTime := time.Now()
	visited := 0
	var foundBytes int64

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}
			// Permission denied or vanished: skip and continue
			s.warn(result, path, err)
			return nil
		}

		if path == root {
			return nil
		}

		visited++
		s.reportScanProgress(&progress.ScanProgress{
			Phase:       progress.PhaseScanning,
			CurrentPath: path,
			Visited:     visited,
			Total:       total,
			Found:       len(result.Records),
			FoundBytes:  foundBytes,
			StartTime:   startTime,
		})

		// Symlinked directories report a symlink type here and are neither
		// candidates nor descended
		if !d.IsDir() || !s.detector.IsEnvironment(path) {
			return nil
		}

		record, keep, err := s.inspect(ctx, path, filter)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.warn(result, path, err)
			return nil
		}
		if keep {
			result.Records = append(result.Records, record)
			foundBytes += record.SizeBytes
		}
		return nil
	})
	if err != nil {
		s.reportScanProgress(&progress.ScanProgress{
			Phase:     progress.PhaseError,
			Visited:   visited,
			Total:     total,
			StartTime: startTime,
			Error:     err,
		})
		return nil, err
	}

	s.reportScanProgress(&progress.ScanProgress{
		Phase:      progress.PhaseComplete,
		Visited:    visited,
		Total:      total,
		Found:      len(result.Records),
		FoundBytes: result.TotalSize(),
		StartTime:  startTime,
	})

	return result, nil
}

// inspect measures a candidate, applies the filter and probes survivors
func (s *Scanner) inspect(ctx context.Context, path string, filter Filter) (Record, bool, error) {
	stats, err := Measure(path)
	if err != nil {
		return Record{}, false, fmt.Errorf("error processing %s: %w", path, err)
	}

	record := Record{
		Path:      path,
		SizeBytes: stats.SizeBytes,
		AgeDays:   stats.AgeDays(s.now()),
	}
	if !filter.Keeps(record.AgeDays) {
		s.logger.Debug("environment younger than threshold", "path", path, "age_days", record.AgeDays)
		return Record{}, false, nil
	}

	probed := s.prober.Probe(ctx, path)
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}

	record.Broken = probed.Broken()
	record.Packages = probed.Packages
	record.Failure = probed.Failure
	record.FailureReason = probed.Reason()

	s.logger.Debug("found environment",
		"path", path,
		"size_bytes", record.SizeBytes,
		"age_days", record.AgeDays,
		"broken", record.Broken)

	return record, true, nil
}

func (s *Scanner) warn(result *Result, path string, err error) {
	s.logger.Warn("skipping path", "path", path, "error", err)
	result.Warnings = append(result.Warnings, err)
}

// reportScanProgress reports scan progress to listeners
func (s *Scanner) reportScanProgress(update *progress.ScanProgress) {
	if update.Phase == progress.PhaseComplete || update.Phase == progress.PhaseError {
		s.logger.Debug(progress.FormatScanProgress(update), "visited", update.Visited)
	}
	if s.progressReporter == nil {
		return
	}
	s.progressReporter.UpdateScanProgress(update)
}
