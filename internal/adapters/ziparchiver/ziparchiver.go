// Package ziparchiver provides the archive engine adapter using
// klauspost/compress/zip, with Zstandard registered as method 93.
package ziparchiver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/internal/ports"
)

// MaxDecompressSize is the maximum allowed uncompressed entry size (10GB).
// This prevents decompression bomb attacks (G110).
const MaxDecompressSize = 10 * 1024 * 1024 * 1024 // 10GB

// flagEncrypted is general purpose bit 0 of a ZIP file header.
const flagEncrypted = 0x1

// Engine implements ports.Engine.
type Engine struct {
	fs ports.FileSystem
}

// New creates an Engine that reads and writes archives through fs.
func New(fs ports.FileSystem) *Engine {
	return &Engine{fs: fs}
}

// NewDefault creates an Engine over the operating system filesystem.
func NewDefault() *Engine {
	return New(osfs.New())
}

func statusErr(code ports.Status, err error) error {
	return ports.NewStatusError(code, err)
}

// Open opens the archive at path.
func (e *Engine) Open(archivePath string, flags ports.OpenFlag) (ports.Handle, error) {
	h := &handle{fs: e.fs, path: archivePath}

	info, err := e.fs.Stat(archivePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if flags&ports.FlagCreate == 0 {
			return nil, statusErr(ports.StatusNoEnt, err)
		}
		return h, nil
	case err != nil:
		return nil, statusErr(ports.StatusOpen, err)
	case info.IsDir():
		return nil, statusErr(ports.StatusNoZip, fmt.Errorf("%s is a directory", archivePath))
	case info.Size() == 0 && flags&ports.FlagCreate != 0:
		h.existed = true
		return h, nil
	}

	f, err := e.fs.Open(archivePath)
	if err != nil {
		return nil, statusErr(ports.StatusOpen, err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		if errors.Is(err, zip.ErrFormat) {
			return nil, statusErr(ports.StatusNoZip, err)
		}
		return nil, statusErr(ports.StatusRead, err)
	}
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	if flags&ports.FlagCheckConsistency != 0 {
		if err := checkConsistency(r); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	h.src = f
	h.existed = true
	h.mode = info.Mode().Perm()
	for _, zf := range r.File {
		h.entries = append(h.entries, &entry{
			name:     zf.Name,
			file:     zf,
			dir:      strings.HasSuffix(zf.Name, "/"),
			modified: zf.Modified,
		})
	}
	return h, nil
}

// checkConsistency reads every entry so that the CRC of each one is verified.
func checkConsistency(r *zip.Reader) error {
	seen := make(map[string]bool, len(r.File))
	for _, zf := range r.File {
		if seen[zf.Name] {
			return statusErr(ports.StatusIncons, fmt.Errorf("duplicate entry %s", zf.Name))
		}
		seen[zf.Name] = true

		if zf.Flags&flagEncrypted != 0 || strings.HasSuffix(zf.Name, "/") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			if errors.Is(err, zip.ErrAlgorithm) {
				return statusErr(ports.StatusCompNotSupp, fmt.Errorf("%s: %w", zf.Name, err))
			}
			return statusErr(ports.StatusIncons, fmt.Errorf("%s: %w", zf.Name, err))
		}
		_, err = io.Copy(io.Discard, rc)
		_ = rc.Close()
		if err != nil {
			return statusErr(ports.StatusIncons, fmt.Errorf("%s: %w", zf.Name, err))
		}
	}
	return nil
}

// entry is an archive member. Entries read from the source archive carry
// file; entries added in this session carry src and are read at commit time.
type entry struct {
	name     string
	file     *zip.File
	src      string
	method   ports.Method
	dir      bool
	modified time.Time
}

type handle struct {
	fs       ports.FileSystem
	path     string
	src      ports.File
	mode     os.FileMode
	entries  []*entry
	password string
	status   ports.Status
	existed  bool
	changed  bool
	closed   bool
}

func (h *handle) fail(code ports.Status, err error) error {
	h.status = code
	return statusErr(code, err)
}

func (h *handle) closedErr() error {
	return h.fail(ports.StatusZipClosed, nil)
}

func (h *handle) index(name string) int {
	for i, e := range h.entries {
		if e.name == name {
			return i
		}
	}
	return -1
}

// lookup finds name exactly, then by its slash-normalized form, so names
// written with backslashes can be extracted by their normalized name.
func (h *handle) lookup(name string) int {
	if i := h.index(name); i >= 0 {
		return i
	}
	for i, e := range h.entries {
		if slashName(e.name) == name {
			return i
		}
	}
	return -1
}

func slashName(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

func (h *handle) NumEntries() int {
	if h.closed {
		return 0
	}
	return len(h.entries)
}

func (h *handle) at(index int) (*entry, error) {
	if h.closed {
		return nil, h.closedErr()
	}
	if index < 0 || index >= len(h.entries) {
		return nil, h.fail(ports.StatusInval, fmt.Errorf("index %d out of range", index))
	}
	return h.entries[index], nil
}

func (h *handle) NameAt(index int) (string, error) {
	e, err := h.at(index)
	if err != nil {
		return "", err
	}
	return e.name, nil
}

func (h *handle) StatAt(index int) (ports.EntryStat, error) {
	e, err := h.at(index)
	if err != nil {
		return ports.EntryStat{}, err
	}

	st := ports.EntryStat{
		Name:     e.name,
		Index:    index,
		Modified: e.modified,
		Method:   e.method,
		Dir:      e.dir,
	}
	switch {
	case e.file != nil:
		st.Size = e.file.UncompressedSize64
		st.CompressedSize = e.file.CompressedSize64
		st.CRC32 = e.file.CRC32
		st.Method = ports.Method(e.file.Method)
		st.Encrypted = e.file.Flags&flagEncrypted != 0
	case e.src != "":
		info, err := h.fs.Stat(e.src)
		if err != nil {
			return ports.EntryStat{}, h.fail(ports.StatusRead, err)
		}
		st.Size = uint64(info.Size())
	}
	return st, nil
}

func (h *handle) SetPassword(password string) {
	h.password = password
}

func (h *handle) Status() ports.Status {
	return h.status
}

func (h *handle) AddEmptyDir(name string) error {
	if h.closed {
		return h.closedErr()
	}
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		return h.fail(ports.StatusInval, errors.New("empty directory name"))
	}
	name += "/"
	if h.index(name) >= 0 {
		return h.fail(ports.StatusExists, fmt.Errorf("entry %s", name))
	}
	h.entries = append(h.entries, &entry{name: name, dir: true, modified: time.Now()})
	h.changed = true
	return nil
}

func (h *handle) AddFile(src, name string, method ports.Method) error {
	if h.closed {
		return h.closedErr()
	}
	if name == "" || strings.HasSuffix(name, "/") {
		return h.fail(ports.StatusInval, fmt.Errorf("invalid entry name %q", name))
	}
	switch method {
	case ports.MethodStore, ports.MethodDeflate, ports.MethodZstd:
	default:
		return h.fail(ports.StatusCompNotSupp, fmt.Errorf("method %d", method))
	}

	info, err := h.fs.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h.fail(ports.StatusNoEnt, err)
		}
		return h.fail(ports.StatusRead, err)
	}
	if !info.Mode().IsRegular() {
		return h.fail(ports.StatusInval, fmt.Errorf("%s is not a regular file", src))
	}

	e := &entry{name: name, src: src, method: method, modified: info.ModTime()}
	if i := h.index(name); i >= 0 {
		h.entries[i] = e
	} else {
		h.entries = append(h.entries, e)
	}
	h.changed = true
	return nil
}

func (h *handle) DeleteName(name string) error {
	if h.closed {
		return h.closedErr()
	}
	i := h.index(name)
	if i < 0 {
		return h.fail(ports.StatusNoEnt, fmt.Errorf("entry %s", name))
	}
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	h.changed = true
	return nil
}

func (h *handle) ExtractTo(dir string, names []string) error {
	if h.closed {
		return h.closedErr()
	}

	selected := make([]*entry, 0, len(names))
	for _, name := range names {
		i := h.lookup(name)
		if i < 0 {
			return h.fail(ports.StatusNoEnt, fmt.Errorf("entry %s", name))
		}
		selected = append(selected, h.entries[i])
	}

	// Get cleaned absolute path for destination
	absDestDir, err := filepath.Abs(dir)
	if err != nil {
		return h.fail(ports.StatusInval, fmt.Errorf("resolving destination path: %w", err))
	}
	absDestDir = filepath.Clean(absDestDir)

	for _, e := range selected {
		fpath := filepath.Join(absDestDir, filepath.FromSlash(slashName(e.name)))

		// SECURITY: Check for ZipSlip vulnerability
		if !isWithinDir(absDestDir, fpath) {
			return h.fail(ports.StatusInval, fmt.Errorf("invalid file path (path traversal detected): %s", e.name))
		}

		if e.dir {
			if err := h.fs.MkdirAll(fpath, 0o755); err != nil {
				return h.fail(ports.StatusWrite, fmt.Errorf("creating directory %s: %w", fpath, err))
			}
			continue
		}

		if err := h.fs.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
			return h.fail(ports.StatusWrite, fmt.Errorf("creating parent directory for %s: %w", fpath, err))
		}

		if e.file != nil {
			err = h.extractFile(e.file, fpath)
		} else {
			err = h.copySource(e.src, fpath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// extractFile extracts a single archived entry.
func (h *handle) extractFile(f *zip.File, destPath string) error {
	// SECURITY: Block symlinks to prevent symlink attacks
	if f.Mode()&os.ModeSymlink != 0 {
		return h.fail(ports.StatusInval, fmt.Errorf("symlinks not supported: %s", f.Name))
	}
	if f.Flags&flagEncrypted != 0 {
		if h.password == "" {
			return h.fail(ports.StatusNoPassword, fmt.Errorf("entry %s is encrypted", f.Name))
		}
		return h.fail(ports.StatusEncryptionNotSupported, fmt.Errorf("entry %s is encrypted", f.Name))
	}

	// SECURITY: Limit decompression size to prevent zip bombs (G110)
	declaredSize := f.UncompressedSize64
	if declaredSize > MaxDecompressSize {
		return h.fail(ports.StatusZlib, fmt.Errorf("file too large: %d bytes exceeds limit of %d bytes", declaredSize, MaxDecompressSize))
	}

	rc, err := f.Open()
	if err != nil {
		if errors.Is(err, zip.ErrAlgorithm) {
			return h.fail(ports.StatusCompNotSupp, fmt.Errorf("%s: %w", f.Name, err))
		}
		return h.fail(ports.StatusRead, fmt.Errorf("%s: %w", f.Name, err))
	}
	defer func() { _ = rc.Close() }()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	outFile, err := h.fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return h.fail(ports.StatusOpen, err)
	}
	defer func() { _ = outFile.Close() }()

	// Add 1 byte to detect if actual size exceeds declared size
	limitedReader := io.LimitReader(rc, int64(declaredSize)+1)
	written, err := io.Copy(outFile, limitedReader)
	if err != nil {
		if errors.Is(err, zip.ErrChecksum) {
			return h.fail(ports.StatusCRC, fmt.Errorf("%s: %w", f.Name, err))
		}
		return h.fail(ports.StatusRead, fmt.Errorf("%s: %w", f.Name, err))
	}

	if written > int64(declaredSize) {
		return h.fail(ports.StatusZlib, fmt.Errorf("%s: decompressed size exceeds declared size", f.Name))
	}
	return nil
}

// copySource extracts an entry that was added in this session and is not
// yet committed to the archive.
func (h *handle) copySource(src, destPath string) error {
	in, err := h.fs.Open(src)
	if err != nil {
		return h.fail(ports.StatusRead, err)
	}
	defer func() { _ = in.Close() }()

	out, err := h.fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return h.fail(ports.StatusOpen, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return h.fail(ports.StatusWrite, err)
	}
	return nil
}

func (h *handle) Close() error {
	if h.closed {
		return h.closedErr()
	}
	if !h.changed {
		h.release()
		return nil
	}

	if len(h.entries) == 0 {
		if !h.existed {
			h.release()
			return nil
		}
		h.release()
		if err := h.fs.Remove(h.path); err != nil {
			return h.fail(ports.StatusRemove, err)
		}
		return nil
	}

	if err := h.commit(); err != nil {
		return err
	}
	h.release()
	return nil
}

// Discard releases the source archive and drops pending changes.
func (h *handle) Discard() error {
	if h.closed {
		return h.closedErr()
	}
	h.release()
	return nil
}

func (h *handle) release() {
	if h.src != nil {
		_ = h.src.Close()
		h.src = nil
	}
	h.closed = true
}

// commit writes the archive to a temp file beside the target and renames it
// into place. The original archive is untouched until the rename.
func (h *handle) commit() error {
	dir := filepath.Dir(h.path)
	tmp, err := h.fs.TempFile(dir, "."+filepath.Base(h.path)+".*")
	if err != nil {
		return h.fail(ports.StatusTmpOpen, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = h.fs.Remove(tmpName)
	}

	w := zip.NewWriter(tmp)
	w.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	for _, e := range h.entries {
		if err := h.writeEntry(w, e); err != nil {
			cleanup()
			return err
		}
	}

	// Close zip writer first to flush data
	if err := w.Close(); err != nil {
		cleanup()
		return h.fail(ports.StatusWrite, fmt.Errorf("closing zip writer: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = h.fs.Remove(tmpName)
		return h.fail(ports.StatusClose, fmt.Errorf("closing temp file: %w", err))
	}

	// Release the source before replacing it.
	if h.src != nil {
		_ = h.src.Close()
		h.src = nil
	}

	if err := h.fs.Rename(tmpName, h.path); err != nil {
		_ = h.fs.Remove(tmpName)
		return h.fail(ports.StatusRename, err)
	}

	mode := h.mode
	if mode == 0 {
		mode = 0o644
	}
	_ = h.fs.Chmod(h.path, mode)
	return nil
}

func (h *handle) writeEntry(w *zip.Writer, e *entry) error {
	switch {
	case e.file != nil:
		if err := w.Copy(e.file); err != nil {
			return h.fail(ports.StatusWrite, fmt.Errorf("copying %s: %w", e.name, err))
		}
		return nil

	case e.dir:
		header := &zip.FileHeader{Name: e.name, Method: zip.Store, Modified: e.modified}
		header.SetMode(fs.ModeDir | 0o755)
		if _, err := w.CreateHeader(header); err != nil {
			return h.fail(ports.StatusWrite, fmt.Errorf("adding %s: %w", e.name, err))
		}
		return nil
	}

	info, err := h.fs.Stat(e.src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h.fail(ports.StatusNoEnt, err)
		}
		return h.fail(ports.StatusRead, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return h.fail(ports.StatusInternal, err)
	}
	header.Name = e.name
	header.Method = uint16(e.method)

	writer, err := w.CreateHeader(header)
	if err != nil {
		return h.fail(ports.StatusWrite, fmt.Errorf("adding %s: %w", e.name, err))
	}

	file, err := h.fs.Open(e.src)
	if err != nil {
		return h.fail(ports.StatusOpen, err)
	}
	_, copyErr := io.Copy(writer, file)
	_ = file.Close() // Explicitly ignore close error - data already copied
	if copyErr != nil {
		return h.fail(ports.StatusWrite, fmt.Errorf("writing %s: %w", e.name, copyErr))
	}
	return nil
}

// isWithinDir checks if the target path is within the base directory.
func isWithinDir(absBaseDir, targetPath string) bool {
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}
	absTarget = filepath.Clean(absTarget)

	return strings.HasPrefix(absTarget, absBaseDir+string(filepath.Separator)) ||
		absTarget == absBaseDir
}

// Compile-time checks.
var (
	_ ports.Engine = (*Engine)(nil)
	_ ports.Handle = (*handle)(nil)
)
