// Package ui draws the live scan display.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/fenilsonani/venvsweep/internal/progress"
	"github.com/fenilsonani/venvsweep/internal/scanner"
	"github.com/fenilsonani/venvsweep/internal/ui/models"
	"github.com/fenilsonani/venvsweep/internal/ui/styles"
	"github.com/fenilsonani/venvsweep/pkg/utils"
)

// ErrInterrupted is returned when the user cancels the scan from the keyboard
var ErrInterrupted = errors.New("scan interrupted")

// ScanFunc runs a scan that stops when ctx is cancelled
type ScanFunc func(ctx context.Context) (*scanner.Result, error)

// ProgressOptions configures the live display
type ProgressOptions struct {
	Input       io.Reader
	Output      io.Writer
	Determinate bool // show a progress bar instead of a spinner
	Width       int  // path display width, 0 for the default
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of the terminal on f, or the default trim
// width when it cannot be determined
func TerminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return utils.DefaultTrimWidth
}

// RunScan runs scan on its own goroutine while a Bubble Tea program renders
// the updates published on pr. It returns once both have finished.
func RunScan(ctx context.Context, scan ScanFunc, pr *progress.ProgressReporter, opts ProgressOptions) (*scanner.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	input := opts.Input
	if input == nil {
		input = os.Stdin
	}

	model := models.NewScanViewModel(styles.New(output), opts.Determinate, opts.Width, cancel)
	// Start from the latest snapshot in case the scan is already under way
	if last := pr.GetScanProgress(); last != nil {
		model.Update(models.ScanProgressMsg{Progress: last})
	}
	p := tea.NewProgram(model, tea.WithInput(input), tea.WithOutput(output))

	updates := pr.Subscribe()
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for update := range updates {
			p.Send(models.ScanProgressMsg{Progress: update})
		}
	}()

	var (
		result  *scanner.Result
		scanErr error
	)
	scanned := make(chan struct{})
	go func() {
		defer close(scanned)
		result, scanErr = scan(ctx)
		p.Send(models.ScanDoneMsg{Result: result, Err: scanErr})
	}()

	_, runErr := p.Run()

	// The program may exit first (interrupt or failure): stop the scan and
	// wait for it before closing the subscription it publishes to
	cancel()
	<-scanned
	pr.Unsubscribe(updates)
	<-forwarded

	if model.Interrupted() {
		return nil, ErrInterrupted
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("progress display failed: %w", runErr)
	}

	return result, scanErr
}
