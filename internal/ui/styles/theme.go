package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#A78BFA")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#3B82F6")
	Accent    = lipgloss.Color("#06B6D4")
	Muted     = lipgloss.Color("#6B7280")
	TextDim   = lipgloss.Color("#9CA3AF")
)

// Styles holds the styles for one output. Colors are dropped automatically
// when the output is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Size    lipgloss.Style
	Ok      lipgloss.Style
	Broken  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
	Spinner lipgloss.Style
}

// New builds styles that render for w
func New(w io.Writer) Styles {
	return NewStyles(lipgloss.NewRenderer(w))
}

// NewStyles builds styles bound to renderer
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(Info),

		Path: r.NewStyle().
			Foreground(Accent),

		Size: r.NewStyle().
			Foreground(Warning),

		Ok: r.NewStyle().
			Foreground(Accent).
			Bold(true),

		Broken: r.NewStyle().
			Foreground(Danger).
			Bold(true),

		Success: r.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: r.NewStyle().
			Foreground(Danger).
			Bold(true),

		Warning: r.NewStyle().
			Foreground(Warning).
			Bold(true),

		Dim: r.NewStyle().
			Foreground(TextDim),

		Bold: r.NewStyle().
			Bold(true),

		Spinner: r.NewStyle().
			Foreground(Primary),
	}
}
