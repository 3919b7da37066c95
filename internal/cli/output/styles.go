package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C3AED"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#10B981"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#06B6D4"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#F59E0B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#EF4444"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#94A3B8"}
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Table   lipgloss.Style
	Column  lipgloss.Style
	Path    lipgloss.Style
	Keyword lipgloss.Style
}

// NewStyles builds styles bound to w. Without color every style renders
// its input unchanged.
func NewStyles(w io.Writer, color bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(colorPrimary),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(colorMuted),
		Success: lr.NewStyle().Foreground(colorAccent),
		Warning: lr.NewStyle().Foreground(colorWarning),
		Error:   lr.NewStyle().Bold(true).Foreground(colorError),
		Info:    lr.NewStyle().Foreground(colorInfo),
		Table:   lr.NewStyle().Bold(true).Foreground(colorInfo),
		Column:  lr.NewStyle().Foreground(colorAccent),
		Path:    lr.NewStyle().Foreground(colorPrimary),
		Keyword: lr.NewStyle().Bold(true).Foreground(colorPrimary),
	}
}
