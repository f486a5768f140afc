// Package mocks provides mock implementations for testing.
package mocks

import (
	"os"

	"github.com/spf13/afero"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing. It serves files
// from an in-memory afero filesystem and lets tests inject failures per path.
type MockFileSystem struct {
	// Mem is the backing in-memory filesystem; seed it with afero helpers
	Mem afero.Fs
	// Errors maps paths, or "Op path" for a single operation, to errors
	Errors map[string]error
	// ReadOnly maps directories to true to make Writable report false
	ReadOnly map[string]bool
	// Calls records "Op path" for every call
	Calls []string

	base *osfs.FileSystem
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	mem := afero.NewMemMapFs()
	return &MockFileSystem{
		Mem:      mem,
		Errors:   make(map[string]error),
		ReadOnly: make(map[string]bool),
		base:     osfs.NewWithFs(mem),
	}
}

// WriteFile seeds a file in the backing filesystem.
func (m *MockFileSystem) WriteFile(name string, data []byte) error {
	return afero.WriteFile(m.Mem, name, data, 0o644)
}

func (m *MockFileSystem) check(op, name string) error {
	m.Calls = append(m.Calls, op+" "+name)
	if err, ok := m.Errors[op+" "+name]; ok {
		return err
	}
	if err, ok := m.Errors[name]; ok {
		return err
	}
	return nil
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err := m.check("Stat", name); err != nil {
		return nil, err
	}
	return m.base.Stat(name)
}

// Lstat returns file info without following symlinks.
func (m *MockFileSystem) Lstat(name string) (os.FileInfo, error) {
	if err := m.check("Lstat", name); err != nil {
		return nil, err
	}
	return m.base.Lstat(name)
}

// ReadDir reads the named directory.
func (m *MockFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	if err := m.check("ReadDir", name); err != nil {
		return nil, err
	}
	return m.base.ReadDir(name)
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err := m.check("MkdirAll", path); err != nil {
		return err
	}
	return m.base.MkdirAll(path, perm)
}

// Open opens the named file for reading.
func (m *MockFileSystem) Open(name string) (ports.File, error) {
	if err := m.check("Open", name); err != nil {
		return nil, err
	}
	return m.base.Open(name)
}

// OpenFile opens the named file with flags.
func (m *MockFileSystem) OpenFile(name string, flag int, perm os.FileMode) (ports.File, error) {
	if err := m.check("OpenFile", name); err != nil {
		return nil, err
	}
	return m.base.OpenFile(name, flag, perm)
}

// TempFile creates a temporary file in dir.
func (m *MockFileSystem) TempFile(dir, pattern string) (ports.File, error) {
	if err := m.check("TempFile", dir); err != nil {
		return nil, err
	}
	return m.base.TempFile(dir, pattern)
}

// Rename renames (moves) oldpath to newpath.
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if err := m.check("Rename", newpath); err != nil {
		return err
	}
	return m.base.Rename(oldpath, newpath)
}

// Remove removes the named file or empty directory.
func (m *MockFileSystem) Remove(name string) error {
	if err := m.check("Remove", name); err != nil {
		return err
	}
	return m.base.Remove(name)
}

// Chmod changes the mode of the named file.
func (m *MockFileSystem) Chmod(name string, mode os.FileMode) error {
	if err := m.check("Chmod", name); err != nil {
		return err
	}
	return m.base.Chmod(name, mode)
}

// RealPath returns the absolute path of name.
func (m *MockFileSystem) RealPath(name string) (string, error) {
	if err := m.check("RealPath", name); err != nil {
		return "", err
	}
	return m.base.RealPath(name)
}

// Writable reports false for directories marked ReadOnly or with an
// injected error.
func (m *MockFileSystem) Writable(dir string) bool {
	if m.check("Writable", dir) != nil || m.ReadOnly[dir] {
		return false
	}
	return m.base.Writable(dir)
}

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
