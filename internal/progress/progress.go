package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilsonani/venvsweep/pkg/utils"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseCounting Phase = "counting"
	PhaseScanning Phase = "scanning"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress is a snapshot of an environment scan
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	Visited     int   // directories entered so far
	Total       int   // directories expected, 0 when not counted
	Found       int   // environments found so far
	FoundBytes  int64 // combined size of environments found so far
	StartTime   time.Time
	Error       error
}

// Fraction returns how far the scan has progressed, or 0 when the total is unknown
func (p *ScanProgress) Fraction() float64 {
	if p == nil || p.Total <= 0 {
		return 0
	}
	f := float64(p.Visited) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// ProgressReporter provides thread-safe progress reporting
type ProgressReporter struct {
	scanProgress *ScanProgress
	mu           sync.RWMutex
	listeners    []chan *ScanProgress
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		listeners: make([]chan *ScanProgress, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (pr *ProgressReporter) Subscribe() <-chan *ScanProgress {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	ch := make(chan *ScanProgress, 10)
	pr.listeners = append(pr.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (pr *ProgressReporter) Unsubscribe(ch <-chan *ScanProgress) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i, listener := range pr.listeners {
		if listener == ch {
			close(listener)
			pr.listeners = append(pr.listeners[:i], pr.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress updates scan progress and notifies listeners
func (pr *ProgressReporter) UpdateScanProgress(update *ScanProgress) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.scanProgress = update

	// Non-blocking; a slow listener misses intermediate snapshots.
	// Sending under the lock keeps Unsubscribe from closing a channel mid-send.
	for _, listener := range pr.listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// GetScanProgress returns the current scan progress
func (pr *ProgressReporter) GetScanProgress() *ScanProgress {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.scanProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseCounting:
		return fmt.Sprintf("Counting directories... %d [%s]", p.Total, FormatDuration(elapsed))
	case PhaseScanning:
		return fmt.Sprintf("Scanning... Found %d environments (%s) [%s]",
			p.Found,
			utils.FormatBytes(p.FoundBytes),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d environments (%s) in %s",
			p.Found,
			utils.FormatBytes(p.FoundBytes),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
