package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors pick the light or dark variant from the terminal background.
var (
	accent = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	subtle = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	text   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
	folder = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	good   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	bad    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

// theme groups the styles used by the browser.
type theme struct {
	frame  lipgloss.Style
	title  lipgloss.Style
	muted  lipgloss.Style
	file   lipgloss.Style
	dir    lipgloss.Style
	cursor lipgloss.Style
	help   lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
}

func newTheme() theme {
	base := lipgloss.NewStyle()
	return theme{
		frame:  base.Margin(1, 2),
		title:  base.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1),
		muted:  base.Foreground(subtle),
		file:   base.Foreground(text),
		dir:    base.Foreground(folder),
		cursor: base.Bold(true).Foreground(accent),
		help:   base.Foreground(subtle).MarginTop(1),
		ok:     base.Bold(true).Foreground(good),
		fail:   base.Bold(true).Foreground(bad),
	}
}

var styles = newTheme()
