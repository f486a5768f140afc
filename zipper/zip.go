// Package zipper is a convenience layer over a ZIP archive engine.
//
// A Zip session is bound to one archive path and owns one engine handle:
//
//	z, err := zipper.Create("backup.zip")
//	if err != nil {
//		return err
//	}
//	if _, err := z.SetSkipped("hidden"); err != nil {
//		return err
//	}
//	if _, err := z.Add("docs", "README.md"); err != nil {
//		return err
//	}
//	return z.Close()
//
// Directories are added recursively, hidden files can be filtered on add and
// extract, and engine failures are reported as *ArchiveError values carrying
// the engine status code.
package zipper

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/mcdonaldj/zipkit/internal/ports"
)

// DefaultMask is the permission mask used when none (or an invalid one) is set.
const DefaultMask fs.FileMode = 0o644

// Zip is an archive session.
//
// A session is not safe for concurrent use. Sessions targeting the same file
// must be serialized by the caller.
type Zip struct {
	path     string
	handle   ports.Handle
	engine   ports.Engine
	fs       ports.FileSystem
	logger   *slog.Logger
	skipMode SkipMode
	mask     fs.FileMode
	password string
	base     string
	method   Method
}

// New creates a session for path without opening the archive.
func New(path string, opts ...Option) (*Zip, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty archive path", ErrInvalidArgument)
	}
	o := buildOptions(opts)
	return &Zip{
		path:     path,
		engine:   o.engine,
		fs:       o.fs,
		logger:   o.logger,
		skipMode: SkipNone,
		mask:     DefaultMask,
		method:   Deflate,
	}, nil
}

// Open opens an existing archive.
func Open(path string, opts ...Option) (*Zip, error) {
	return openWith(path, 0, opts)
}

// Create opens path for writing, creating a new archive if it does not exist.
// An archive with no entries is not written on Close.
func Create(path string, opts ...Option) (*Zip, error) {
	return openWith(path, ports.FlagCreate, opts)
}

// Check opens path with consistency checking, verifying every entry, and
// closes it again. The archive is never modified.
func Check(path string, opts ...Option) error {
	z, err := New(path, opts...)
	if err != nil {
		return err
	}
	h, err := z.engine.Open(path, ports.FlagCheckConsistency)
	if err != nil {
		return newArchiveError("check", err, StatusInternal)
	}
	if err := h.Close(); err != nil {
		return newArchiveError("check", err, h.Status())
	}
	z.log().Info("archive consistent", "path", path)
	return nil
}

func openWith(path string, flags ports.OpenFlag, opts []Option) (*Zip, error) {
	z, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	h, err := z.engine.Open(path, flags)
	if err != nil {
		return nil, newArchiveError("open", err, StatusInternal)
	}
	z.handle = h
	z.log().Info("archive opened", "path", path, "entries", h.NumEntries())
	return z, nil
}

func (z *Zip) log() *slog.Logger {
	if z.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return z.logger
}

// archiveError wraps an engine failure, using the handle status when the
// error itself carries none.
func (z *Zip) archiveError(op string, err error) error {
	fallback := StatusInternal
	if z.handle != nil {
		fallback = z.handle.Status()
	}
	return newArchiveError(op, err, fallback)
}

// ArchivePath returns the path of the archive bound to the session.
func (z *Zip) ArchivePath() string {
	return z.path
}

// Handle is an open archive held by the engine.
type Handle = ports.Handle

// SetArchive binds an already open engine handle to the session, replacing
// any handle it held. The previous handle is not closed.
func (z *Zip) SetArchive(h Handle) *Zip {
	z.handle = h
	if h != nil && z.password != "" {
		h.SetPassword(z.password)
	}
	return z
}

// Archive returns the engine handle, or nil when the session is not open.
func (z *Zip) Archive() Handle {
	return z.handle
}

// IsOpen reports whether the session holds an open archive.
func (z *Zip) IsOpen() bool {
	return z.handle != nil
}

// ListFiles returns the names of all entries in engine order.
func (z *Zip) ListFiles() ([]string, error) {
	if z.handle == nil {
		return nil, closedError("list")
	}
	n := z.handle.NumEntries()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, err := z.handle.NameAt(i)
		if err != nil {
			return nil, z.archiveError("list", err)
		}
		files = append(files, name)
	}
	return files, nil
}

// Count returns the number of entries in the archive, or 0 when the session
// is not open.
func (z *Zip) Count() int {
	if z.handle == nil {
		return 0
	}
	return z.handle.NumEntries()
}

// Entry describes one archive entry.
type Entry = ports.EntryStat

// Entries returns the metadata of every entry in engine order.
func (z *Zip) Entries() ([]Entry, error) {
	if z.handle == nil {
		return nil, closedError("stat")
	}
	n := z.handle.NumEntries()
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		st, err := z.handle.StatAt(i)
		if err != nil {
			return nil, z.archiveError("stat", err)
		}
		entries = append(entries, st)
	}
	return entries, nil
}

// Delete removes the named entries. Names must match exactly; the first
// failure aborts the remaining deletions.
func (z *Zip) Delete(names ...string) (*Zip, error) {
	if len(names) == 0 {
		return z, fmt.Errorf("%w: nothing to delete", ErrNotFound)
	}
	if z.handle == nil {
		return z, closedError("delete")
	}
	for _, name := range names {
		if err := z.handle.DeleteName(name); err != nil {
			return z, z.archiveError("delete", err)
		}
		z.log().Debug("entry deleted", "name", name)
	}
	return z, nil
}

// Close commits pending changes and releases the archive.
func (z *Zip) Close() error {
	if z.handle == nil {
		return closedError("close")
	}
	if err := z.handle.Close(); err != nil {
		return z.archiveError("close", err)
	}
	z.handle = nil
	z.log().Info("archive closed", "path", z.path)
	return nil
}

// Discard releases the archive without writing pending changes.
func (z *Zip) Discard() error {
	if z.handle == nil {
		return closedError("discard")
	}
	if err := z.handle.Discard(); err != nil {
		return z.archiveError("discard", err)
	}
	z.handle = nil
	z.log().Info("archive discarded", "path", z.path)
	return nil
}
