// Package osfs provides a filesystem adapter backed by afero.
// New uses the real operating system; NewWithFs accepts any afero.Fs,
// which lets tests run against an in-memory filesystem.
package osfs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcdonaldj/zipkit/internal/ports"
)

// FileSystem implements ports.FileSystem on top of an afero.Fs.
type FileSystem struct {
	fs afero.Fs
}

// New creates a FileSystem adapter over the operating system.
func New() *FileSystem {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates a FileSystem adapter over fs.
func NewWithFs(fs afero.Fs) *FileSystem {
	return &FileSystem{fs: fs}
}

// Fs returns the underlying afero filesystem.
func (f *FileSystem) Fs() afero.Fs {
	return f.fs
}

// Stat returns file info for the named file.
func (f *FileSystem) Stat(name string) (os.FileInfo, error) {
	return f.fs.Stat(name)
}

// Lstat returns file info without following a final symlink when the
// underlying filesystem supports it, and falls back to Stat otherwise.
func (f *FileSystem) Lstat(name string) (os.FileInfo, error) {
	if l, ok := f.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return f.fs.Stat(name)
}

// ReadDir reads the named directory and returns its entries sorted by name.
func (f *FileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	return afero.ReadDir(f.fs, name)
}

// MkdirAll creates a directory along with any necessary parents.
func (f *FileSystem) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

// Open opens the named file for reading.
func (f *FileSystem) Open(name string) (ports.File, error) {
	return f.fs.Open(name)
}

// OpenFile opens the named file with the given flags and permissions.
func (f *FileSystem) OpenFile(name string, flag int, perm os.FileMode) (ports.File, error) {
	return f.fs.OpenFile(name, flag, perm)
}

// TempFile creates a new temporary file in dir.
func (f *FileSystem) TempFile(dir, pattern string) (ports.File, error) {
	return afero.TempFile(f.fs, dir, pattern)
}

// Rename renames (moves) oldpath to newpath.
func (f *FileSystem) Rename(oldpath, newpath string) error {
	return f.fs.Rename(oldpath, newpath)
}

// Remove removes the named file or empty directory.
func (f *FileSystem) Remove(name string) error {
	return f.fs.Remove(name)
}

// Chmod changes the mode of the named file.
func (f *FileSystem) Chmod(name string, mode os.FileMode) error {
	return f.fs.Chmod(name, mode)
}

// RealPath returns the absolute form of name. Symlinks are resolved only on
// the OS filesystem; other afero backends have no links to follow.
func (f *FileSystem) RealPath(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	if _, ok := f.fs.(*afero.OsFs); ok {
		return filepath.EvalSymlinks(abs)
	}
	if _, err := f.fs.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Writable reports whether a file can be created in dir by creating and
// removing a scratch file.
func (f *FileSystem) Writable(dir string) bool {
	scratch, err := afero.TempFile(f.fs, dir, ".zipkit-write-*")
	if err != nil {
		return false
	}
	name := scratch.Name()
	_ = scratch.Close()
	_ = f.fs.Remove(name)
	return true
}

// Compile-time check that FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
