package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/spf13/afero"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/zipper"
)

const archivePath = "/work/test.zip"

// newSession writes an archive with a few entries to an in-memory
// filesystem and reopens it.
func newSession(t *testing.T) (*zipper.Zip, afero.Fs, zipper.Option) {
	t.Helper()
	mem := afero.NewMemMapFs()
	files := map[string]string{
		"/src/a.txt":       "alpha",
		"/src/dir/b.txt":   "bravo",
		"/src/.hidden":     "secret",
		"/work/.keep":      "",
		"/out/placeholder": "",
	}
	for name, content := range files {
		if err := afero.WriteFile(mem, name, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	opt := zipper.WithFileSystem(osfs.NewWithFs(mem))

	z, err := zipper.Create(archivePath, opt)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := z.Add("/src/a.txt", "/src/dir", "/src/.hidden"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	z, err = zipper.Open(archivePath, opt)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return z, mem, opt
}

func newTestModel(t *testing.T) (*Model, afero.Fs, zipper.Option) {
	t.Helper()
	z, mem, opt := newSession(t)
	m, err := NewModel(z, "/out")
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	t.Cleanup(func() {
		if z.IsOpen() {
			_ = z.Close()
		}
	})
	return m, mem, opt
}

func press(m *Model, k string) (*Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return updated.(*Model), cmd
}

func entryNames(m *Model) []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	want := []string{"a.txt", "dir/", "dir/b.txt", ".hidden"}
	got := entryNames(m)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("entries = %v, expected %v", got, want)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}
}

func TestNewModelClosedSession(t *testing.T) {
	z, _, _ := newSession(t)
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewModel(z, "/out"); err == nil {
		t.Error("expected error for closed session")
	}
}

func TestModelNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(m, "down")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1", m.cursor)
	}
	m, _ = press(m, "j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, expected 2", m.cursor)
	}
	m, _ = press(m, "G")
	if m.cursor != 3 {
		t.Errorf("cursor = %d, expected 3", m.cursor)
	}
	m, _ = press(m, "down")
	if m.cursor != 3 {
		t.Errorf("cursor should stop at last entry, got %d", m.cursor)
	}
	m, _ = press(m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}
	m, _ = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor should stop at first entry, got %d", m.cursor)
	}
}

func TestModelWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(*Model)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, expected 120x40", m.width, m.height)
	}
}

func TestModelDeleteCommitsOnQuit(t *testing.T) {
	m, _, opt := newTestModel(t)

	m, _ = press(m, "d")
	if m.statusErr {
		t.Fatalf("delete failed: %s", m.statusMsg)
	}
	if !strings.Contains(m.statusMsg, "Deleted a.txt") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if len(m.entries) != 3 || m.deleted != 1 {
		t.Errorf("entries = %v, deleted = %d", entryNames(m), m.deleted)
	}

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.closeErr != nil {
		t.Fatalf("close failed: %v", m.closeErr)
	}

	z, err := zipper.Open(archivePath, opt)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = z.Close() }()
	files, err := z.ListFiles()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if f == "a.txt" {
			t.Error("a.txt should be deleted from the archive")
		}
	}
}

func TestModelDeleteLastEntryMovesCursor(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(m, "G")
	m, _ = press(m, "d")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, expected 2", m.cursor)
	}
}

func TestModelDeleteEmpty(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.entries = nil

	m, _ = press(m, "d")
	if !m.statusErr || m.statusMsg != "Nothing selected" {
		t.Errorf("status = %q (err=%v)", m.statusMsg, m.statusErr)
	}
}

func TestModelExtractSelected(t *testing.T) {
	m, mem, _ := newTestModel(t)

	m, cmd := press(m, "x")
	if cmd == nil {
		t.Fatal("expected extract command")
	}
	if !m.busy {
		t.Error("model should be busy while extracting")
	}

	// Keys are ignored while busy.
	m, _ = press(m, "down")
	if m.cursor != 0 {
		t.Errorf("cursor moved while busy: %d", m.cursor)
	}

	updated, _ := m.Update(cmd())
	m = updated.(*Model)
	if m.busy || m.statusErr {
		t.Fatalf("status = %q (busy=%v)", m.statusMsg, m.busy)
	}
	if !strings.Contains(m.statusMsg, "Extracted a.txt to /out") {
		t.Errorf("status = %q", m.statusMsg)
	}

	data, err := afero.ReadFile(mem, "/out/a.txt")
	if err != nil {
		t.Fatalf("a.txt not extracted: %v", err)
	}
	if string(data) != "alpha" {
		t.Errorf("content = %q, expected alpha", data)
	}
	if exists, _ := afero.Exists(mem, "/out/dir/b.txt"); exists {
		t.Error("only the selected entry should be extracted")
	}
}

func TestModelExtractAllUsesSkipMode(t *testing.T) {
	m, mem, _ := newTestModel(t)
	if _, err := m.zip.SetSkipped("hidden"); err != nil {
		t.Fatal(err)
	}

	m, cmd := press(m, "X")
	updated, _ := m.Update(cmd())
	m = updated.(*Model)
	if m.statusErr {
		t.Fatalf("extract failed: %s", m.statusMsg)
	}

	if exists, _ := afero.Exists(mem, "/out/dir/b.txt"); !exists {
		t.Error("dir/b.txt should be extracted")
	}
	if exists, _ := afero.Exists(mem, "/out/.hidden"); exists {
		t.Error(".hidden should be skipped")
	}
}

func TestModelExtractFailure(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.extractDir = ""

	m, cmd := press(m, "X")
	updated, _ := m.Update(cmd())
	m = updated.(*Model)
	if !m.statusErr || !strings.HasPrefix(m.statusMsg, "Extract failed") {
		t.Errorf("status = %q (err=%v)", m.statusMsg, m.statusErr)
	}
}

func TestModelView(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.width = 120
	m.height = 30

	view := m.View()
	for _, want := range []string{"test.zip", "4 entries", "a.txt", "dir/b.txt", "NAME", "[q] save & quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = press(m, "d")
	if view := m.View(); !strings.Contains(view, "1 pending deletions") {
		t.Errorf("view should show pending deletions:\n%s", view)
	}

	m.quitting = true
	if m.View() != "" {
		t.Error("view should be empty when quitting")
	}
}

func TestModelViewEmpty(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.entries = nil

	if view := m.View(); !strings.Contains(view, "(empty archive)") {
		t.Errorf("view should show empty archive:\n%s", view)
	}
}

func TestWithTeatest(t *testing.T) {
	m, _, opt := newTestModel(t)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	final := tm.FinalModel(t).(*Model)
	if final.closeErr != nil {
		t.Fatalf("close failed: %v", final.closeErr)
	}

	z, err := zipper.Open(archivePath, opt)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = z.Close() }()
	if z.Count() != 3 {
		t.Errorf("count = %d, expected 3 after deleting dir/b.txt", z.Count())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, expected %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Errorf("formatTime(zero) = %q, expected -", got)
	}
	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	if got := formatTime(ts); got != "2024-03-05 14:07" {
		t.Errorf("formatTime = %q", got)
	}
}

func TestNewTheme(t *testing.T) {
	th := newTheme()
	if th.frame.GetMarginLeft() != 2 || th.frame.GetMarginTop() != 1 {
		t.Errorf("frame margins = %d,%d", th.frame.GetMarginTop(), th.frame.GetMarginLeft())
	}
	if !th.title.GetBold() || !th.cursor.GetBold() {
		t.Error("title and cursor should be bold")
	}
	if th.help.GetMarginTop() != 1 {
		t.Error("help should be separated from the list")
	}
	if got := th.file.Render("a.txt"); !strings.Contains(got, "a.txt") {
		t.Errorf("render = %q", got)
	}
}
