package models

import (
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/venvsweep/internal/progress"
	"github.com/fenilsonani/venvsweep/internal/scanner"
	"github.com/fenilsonani/venvsweep/internal/ui/styles"
	"github.com/fenilsonani/venvsweep/pkg/utils"
)

// pathIndent is the space taken by the prefix in front of the current path
const pathIndent = 2

// ScanProgressMsg carries a progress snapshot into the program
type ScanProgressMsg struct {
	Progress *progress.ScanProgress
}

// ScanDoneMsg is sent once the scan returns
type ScanDoneMsg struct {
	Result *scanner.Result
	Err    error
}

// ScanViewModel renders live progress for a running scan: a spinner when the
// amount of work is unknown, a progress bar once it has been counted
type ScanViewModel struct {
	styles      styles.Styles
	spinner     spinner.Model
	bar         bprogress.Model
	determinate bool
	width       int
	current     *progress.ScanProgress
	startTime   time.Time
	done        bool
	interrupted bool
	onInterrupt func()
}

// NewScanViewModel creates a scan view. width is the terminal width used to
// shorten paths; onInterrupt runs when the user presses ctrl+c.
func NewScanViewModel(st styles.Styles, determinate bool, width int, onInterrupt func()) *ScanViewModel {
	if width <= 0 {
		width = utils.DefaultTrimWidth
	}

	return &ScanViewModel{
		styles: st,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(st.Spinner),
		),
		bar: bprogress.New(
			bprogress.WithDefaultGradient(),
			bprogress.WithWidth(40),
		),
		determinate: determinate,
		width:       width,
		startTime:   time.Now(),
		onInterrupt: onInterrupt,
	}
}

// Interrupted reports whether the user cancelled the scan
func (m *ScanViewModel) Interrupted() bool {
	return m.interrupted
}

// Init initializes the scan view
func (m *ScanViewModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			if m.onInterrupt != nil {
				m.onInterrupt()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.current = msg.Progress
		return m, nil

	case ScanDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the scan view. It is empty once the scan is over so the
// report starts on a clean line.
func (m *ScanViewModel) View() string {
	if m.done || m.interrupted {
		return ""
	}

	var b strings.Builder
	p := m.current

	b.WriteString(m.spinner.View())
	b.WriteString(" ")

	switch {
	case p != nil && p.Phase == progress.PhaseCounting:
		b.WriteString(m.styles.Title.Render("Counting directories..."))
		b.WriteString(" ")
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("%d", p.Total)))

	case m.determinate && p != nil && p.Total > 0:
		b.WriteString(m.styles.Title.Render("Scanning directories..."))
		b.WriteString(" ")
		b.WriteString(m.bar.ViewAs(p.Fraction()))

	default:
		b.WriteString(m.styles.Title.Render("Scanning directories..."))
	}
	b.WriteString("\n")

	if p != nil && p.CurrentPath != "" {
		b.WriteString(strings.Repeat(" ", pathIndent))
		b.WriteString(m.styles.Path.Render(utils.TrimPath(p.CurrentPath, m.width-pathIndent)))
		b.WriteString("\n")
	}

	found := 0
	var foundBytes int64
	if p != nil {
		found, foundBytes = p.Found, p.FoundBytes
	}
	b.WriteString(strings.Repeat(" ", pathIndent))
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("Found %d environments (%s) · %s · ctrl+c to cancel",
		found,
		utils.FormatBytes(foundBytes),
		progress.FormatDuration(time.Since(m.startTime)))))
	b.WriteString("\n")

	return b.String()
}
