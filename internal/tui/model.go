// Package tui implements an interactive archive browser.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcdonaldj/zipkit/zipper"
)

// Model is the browser model. It owns the session until it quits, at which
// point the archive is closed and pending deletions are committed.
type Model struct {
	zip        *zipper.Zip
	extractDir string
	width      int
	height     int
	quitting   bool
	busy       bool

	entries []zipper.Entry
	cursor  int
	deleted int // deletions pending until close

	// Status message
	statusMsg string
	statusErr bool

	closeErr error
}

// Key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Delete     key.Binding
	Extract    key.Binding
	ExtractAll key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Extract: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "extract entry"),
	),
	ExtractAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "extract all"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates a browser over an open session. Extractions go to
// extractDir.
func NewModel(z *zipper.Zip, extractDir string) (*Model, error) {
	m := &Model{
		zip:        z,
		extractDir: extractDir,
	}
	if err := m.loadEntries(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) loadEntries() error {
	entries, err := m.zip.Entries()
	if err != nil {
		return err
	}
	m.entries = entries
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.busy = false
		m.handleStatusMsg(msg)
		return m, nil

	case tea.KeyMsg:
		// Extraction runs off the update loop and holds the session.
		if m.busy {
			return m, nil
		}

		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			return m, m.quit()

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Top):
			m.cursor = 0

		case key.Matches(msg, keys.Bottom):
			m.moveCursor(len(m.entries))

		case key.Matches(msg, keys.Delete):
			m.deleteSelected()

		case key.Matches(msg, keys.Extract):
			if e, ok := m.selected(); ok {
				m.busy = true
				return m, m.runExtract(e.Name)
			}
			m.setStatus(true, "Nothing selected")

		case key.Matches(msg, keys.ExtractAll):
			m.busy = true
			return m, m.runExtract("")
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (zipper.Entry, bool) {
	if len(m.entries) == 0 {
		return zipper.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// deleteSelected removes the entry under the cursor from the session.
func (m *Model) deleteSelected() {
	e, ok := m.selected()
	if !ok {
		m.setStatus(true, "Nothing selected")
		return
	}
	if _, err := m.zip.Delete(e.Name); err != nil {
		m.setStatus(true, fmt.Sprintf("Delete failed: %v", err))
		return
	}
	m.deleted++
	if err := m.loadEntries(); err != nil {
		m.setStatus(true, fmt.Sprintf("Error: %v", err))
		return
	}
	m.setStatus(false, fmt.Sprintf("✓ Deleted %s (saved on quit)", e.Name))
}

// runExtract extracts name, or every entry the skip mode keeps when name is
// empty.
func (m *Model) runExtract(name string) tea.Cmd {
	z := m.zip
	dest := m.extractDir
	return func() tea.Msg {
		var err error
		if name == "" {
			err = z.Extract(dest)
		} else {
			err = z.Extract(dest, name)
		}
		if err != nil {
			return statusMsg{err: true, msg: fmt.Sprintf("Extract failed: %v", err)}
		}
		what := "archive"
		if name != "" {
			what = name
		}
		return statusMsg{msg: fmt.Sprintf("✓ Extracted %s to %s", what, dest)}
	}
}

// quit closes the session, committing deletions.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.zip.IsOpen() {
		m.closeErr = m.zip.Close()
	}
	return tea.Quit
}

// statusMsg reports the result of a background operation.
type statusMsg struct {
	err bool
	msg string
}

func (m *Model) handleStatusMsg(msg statusMsg) {
	m.setStatus(msg.err, msg.msg)
}

func (m *Model) setStatus(isErr bool, msg string) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return styles.frame.Render(m.renderEntries())
}

func (m *Model) renderEntries() string {
	var b strings.Builder

	// Title
	title := styles.title.Render(" 🗜  " + filepath.Base(m.zip.ArchivePath()) + " ")
	b.WriteString(title)
	summary := fmt.Sprintf("  %d entries", len(m.entries))
	if m.deleted > 0 {
		summary += fmt.Sprintf(", %d pending deletions", m.deleted)
	}
	b.WriteString(styles.muted.Render(summary))
	b.WriteString("\n\n")

	// Header
	header := fmt.Sprintf("  %-40s %10s %10s %-7s %s",
		"NAME", "SIZE", "PACKED", "METHOD", "MODIFIED")
	b.WriteString(styles.muted.Render(header))
	b.WriteString("\n")
	b.WriteString(styles.muted.Render(strings.Repeat("─", 86)))
	b.WriteString("\n")

	// List items
	visibleHeight := m.height - 10
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	start := 0
	if m.cursor >= visibleHeight {
		start = m.cursor - visibleHeight + 1
	}

	if len(m.entries) == 0 {
		b.WriteString(styles.muted.Render("  (empty archive)"))
		b.WriteString("\n")
	}

	for i := start; i < len(m.entries) && i < start+visibleHeight; i++ {
		e := m.entries[i]
		cursor := "  "
		style := styles.file
		if e.Dir {
			style = styles.dir
		}
		if i == m.cursor {
			cursor = "▸ "
			style = styles.cursor
		}

		size, packed, method := "-", "-", "-"
		if !e.Dir {
			size = FormatSize(int64(e.Size))
			method = e.Method.String()
			if e.CompressedSize > 0 {
				packed = FormatSize(int64(e.CompressedSize))
			}
		}
		if e.Encrypted {
			method += "*"
		}

		line := fmt.Sprintf("%s%-40s %10s %10s %-7s %s",
			cursor, truncate(e.Name, 40), size, packed, method, formatTime(e.Modified))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	// Pad to fixed height
	for i := len(m.entries); i < visibleHeight; i++ {
		b.WriteString("\n")
	}

	// Status
	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(styles.muted.Render("Extracting..."))
	case m.statusMsg != "":
		if m.statusErr {
			b.WriteString(styles.fail.Render(m.statusMsg))
		} else {
			b.WriteString(styles.ok.Render(m.statusMsg))
		}
	}
	b.WriteString("\n")

	// Help
	help := fmt.Sprintf("[↑/↓] navigate  [d] delete  [x] extract  [X] extract all to %s  [q] save & quit",
		truncate(m.extractDir, 30))
	b.WriteString(styles.help.Render(help))

	return b.String()
}

// Run starts the browser on z and closes z when it exits.
func Run(z *zipper.Zip, extractDir string) error {
	m, err := NewModel(z, extractDir)
	if err != nil {
		_ = z.Close()
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	if z.IsOpen() {
		if cerr := z.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	return m.closeErr
}

// Helper functions
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// FormatSize formats bytes as human-readable size
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
