package mocks

import (
	"errors"
	"fmt"

	"github.com/mcdonaldj/zipkit/internal/ports"
)

// MockEngine implements ports.Engine for testing.
type MockEngine struct {
	// Handles maps archive paths to the handle returned by Open
	Handles map[string]*MockHandle
	// Errors maps archive paths to Open errors
	Errors map[string]error
	// OpenCalls records calls to Open
	OpenCalls []OpenCall
}

// OpenCall records parameters of an Open call.
type OpenCall struct {
	Path  string
	Flags ports.OpenFlag
}

// NewMockEngine creates a new mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Handles: make(map[string]*MockHandle),
		Errors:  make(map[string]error),
	}
}

// Open returns the configured handle for path. Unknown paths fail with
// StatusNoEnt unless FlagCreate is set, in which case an empty handle is
// created and remembered.
func (m *MockEngine) Open(path string, flags ports.OpenFlag) (ports.Handle, error) {
	m.OpenCalls = append(m.OpenCalls, OpenCall{Path: path, Flags: flags})
	if err, ok := m.Errors[path]; ok {
		return nil, err
	}
	if h, ok := m.Handles[path]; ok {
		h.Closed = false
		return h, nil
	}
	if flags&ports.FlagCreate == 0 {
		return nil, ports.NewStatusError(ports.StatusNoEnt, fmt.Errorf("open %s", path))
	}
	h := NewMockHandle()
	m.Handles[path] = h
	return h, nil
}

// MockHandle implements ports.Handle for testing.
type MockHandle struct {
	// Entries is the ordered list of entry names
	Entries []string
	// Errors maps "Method" or "Method:name" to errors
	Errors map[string]error
	// StatusCode is returned by Status; failures carrying a status update it
	StatusCode ports.Status
	// Password is the last password set
	Password string
	// Closed is true after a successful Close or Discard
	Closed bool
	// Discarded is true after Discard
	Discarded bool

	// Call tracking
	AddFileCalls []AddFileCall
	AddDirCalls  []string
	DeleteCalls  []string
	ExtractCalls []ExtractCall
	CloseCalls   int
}

// AddFileCall records parameters of an AddFile call.
type AddFileCall struct {
	Src    string
	Name   string
	Method ports.Method
}

// ExtractCall records parameters of an ExtractTo call.
type ExtractCall struct {
	Dir   string
	Names []string
}

// NewMockHandle creates a handle holding entries.
func NewMockHandle(entries ...string) *MockHandle {
	return &MockHandle{
		Entries: entries,
		Errors:  make(map[string]error),
	}
}

func (m *MockHandle) err(method, name string) error {
	err, ok := m.Errors[method+":"+name]
	if !ok {
		err, ok = m.Errors[method]
	}
	if !ok {
		return nil
	}
	var se *ports.StatusError
	if errors.As(err, &se) {
		m.StatusCode = se.Code
	}
	return err
}

func (m *MockHandle) indexOf(name string) int {
	for i, e := range m.Entries {
		if e == name {
			return i
		}
	}
	return -1
}

// NumEntries returns the number of entries.
func (m *MockHandle) NumEntries() int {
	if m.Closed {
		return 0
	}
	return len(m.Entries)
}

// NameAt returns the entry name at index.
func (m *MockHandle) NameAt(index int) (string, error) {
	if err := m.err("NameAt", fmt.Sprint(index)); err != nil {
		return "", err
	}
	if index < 0 || index >= len(m.Entries) {
		m.StatusCode = ports.StatusInval
		return "", ports.NewStatusError(ports.StatusInval, nil)
	}
	return m.Entries[index], nil
}

// StatAt returns a stat record carrying the entry name and index.
func (m *MockHandle) StatAt(index int) (ports.EntryStat, error) {
	if err := m.err("StatAt", fmt.Sprint(index)); err != nil {
		return ports.EntryStat{}, err
	}
	if index < 0 || index >= len(m.Entries) {
		m.StatusCode = ports.StatusInval
		return ports.EntryStat{}, ports.NewStatusError(ports.StatusInval, nil)
	}
	name := m.Entries[index]
	return ports.EntryStat{Name: name, Index: index, Dir: len(name) > 0 && name[len(name)-1] == '/'}, nil
}

// ExtractTo records the extraction.
func (m *MockHandle) ExtractTo(dir string, names []string) error {
	m.ExtractCalls = append(m.ExtractCalls, ExtractCall{Dir: dir, Names: append([]string(nil), names...)})
	return m.err("ExtractTo", dir)
}

// AddEmptyDir records and appends a directory entry.
func (m *MockHandle) AddEmptyDir(name string) error {
	m.AddDirCalls = append(m.AddDirCalls, name)
	if err := m.err("AddEmptyDir", name); err != nil {
		return err
	}
	m.Entries = append(m.Entries, name+"/")
	return nil
}

// AddFile records and appends (or replaces) a file entry.
func (m *MockHandle) AddFile(src, name string, method ports.Method) error {
	m.AddFileCalls = append(m.AddFileCalls, AddFileCall{Src: src, Name: name, Method: method})
	if err := m.err("AddFile", name); err != nil {
		return err
	}
	if m.indexOf(name) < 0 {
		m.Entries = append(m.Entries, name)
	}
	return nil
}

// DeleteName removes an entry, failing with StatusNoEnt when it is missing.
func (m *MockHandle) DeleteName(name string) error {
	m.DeleteCalls = append(m.DeleteCalls, name)
	if err := m.err("DeleteName", name); err != nil {
		return err
	}
	i := m.indexOf(name)
	if i < 0 {
		m.StatusCode = ports.StatusNoEnt
		return ports.NewStatusError(ports.StatusNoEnt, nil)
	}
	m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
	return nil
}

// SetPassword records the password.
func (m *MockHandle) SetPassword(password string) {
	m.Password = password
}

// Status returns the last recorded status.
func (m *MockHandle) Status() ports.Status {
	return m.StatusCode
}

// Close marks the handle closed unless a Close error is configured.
func (m *MockHandle) Close() error {
	m.CloseCalls++
	if err := m.err("Close", ""); err != nil {
		return err
	}
	m.Closed = true
	return nil
}

// Discard marks the handle closed without committing.
func (m *MockHandle) Discard() error {
	if err := m.err("Discard", ""); err != nil {
		return err
	}
	m.Closed = true
	m.Discarded = true
	return nil
}

// Compile-time checks.
var (
	_ ports.Engine = (*MockEngine)(nil)
	_ ports.Handle = (*MockHandle)(nil)
)
