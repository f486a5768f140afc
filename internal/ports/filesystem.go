// Package ports defines interfaces (contracts) for external dependencies.
// These enable dependency injection and testability via mock implementations.
package ports

import (
	"io"
	"os"
)

// File is an open file handed out by a FileSystem.
type File interface {
	io.Reader
	io.ReaderAt
	io.Writer
	io.Closer
	Name() string
	Stat() (os.FileInfo, error)
}

// FileSystem abstracts filesystem operations for testability.
// Production code uses the osfs adapter (afero over the OS); tests use an
// in-memory filesystem or MockFileSystem.
type FileSystem interface {
	// Stat returns file info for the named file, following symlinks.
	Stat(name string) (os.FileInfo, error)

	// Lstat returns file info without following a final symlink.
	Lstat(name string) (os.FileInfo, error)

	// ReadDir returns the entries of the named directory sorted by name.
	ReadDir(name string) ([]os.FileInfo, error)

	// MkdirAll creates a directory along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// Open opens the named file for reading.
	Open(name string) (File, error)

	// OpenFile opens the named file with the given flags and permissions.
	OpenFile(name string, flag int, perm os.FileMode) (File, error)

	// TempFile creates a new temporary file in dir.
	TempFile(dir, pattern string) (File, error)

	// Rename renames (moves) oldpath to newpath.
	Rename(oldpath, newpath string) error

	// Remove removes the named file or empty directory.
	Remove(name string) error

	// Chmod changes the mode of the named file.
	Chmod(name string, mode os.FileMode) error

	// RealPath returns the absolute, symlink-resolved form of name.
	RealPath(name string) (string, error)

	// Writable reports whether new files can be created in dir.
	Writable(dir string) bool
}
