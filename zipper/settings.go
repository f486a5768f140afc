package zipper

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mcdonaldj/zipkit/internal/ports"
)

// Method is the compression method used for files added to the archive.
type Method = ports.Method

// Compression methods.
const (
	Store   = ports.MethodStore
	Deflate = ports.MethodDeflate
	Zstd    = ports.MethodZstd
)

// ParseCompression parses a method name (STORE, DEFLATE or ZSTD), ignoring case.
func ParseCompression(name string) (Method, error) {
	switch strings.ToUpper(name) {
	case "STORE":
		return Store, nil
	case "DEFLATE":
		return Deflate, nil
	case "ZSTD":
		return Zstd, nil
	}
	return 0, fmt.Errorf("%w: compression %q", ErrUnsupportedOption, name)
}

// ParseMask parses an octal permission string such as "0755" or "644".
// Values outside 0777 are returned as is; SetMask replaces them with DefaultMask.
func ParseMask(s string) (fs.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: mask %q", ErrInvalidArgument, s)
	}
	return fs.FileMode(v), nil
}

// SetSkipped sets the skip mode. The mode is matched case-insensitively.
func (z *Zip) SetSkipped(mode string) (*Zip, error) {
	m, err := ParseSkipMode(mode)
	if err != nil {
		return z, err
	}
	z.skipMode = m
	return z, nil
}

// Skipped returns the current skip mode.
func (z *Zip) Skipped() SkipMode {
	return z.skipMode
}

// SetPassword sets the password handed to the engine for encrypted entries.
func (z *Zip) SetPassword(password string) *Zip {
	z.password = password
	if z.handle != nil {
		z.handle.SetPassword(password)
	}
	return z
}

// Password returns the current password.
func (z *Zip) Password() string {
	return z.password
}

// SetPath sets the base path prepended to names passed to Add.
func (z *Zip) SetPath(base string) (*Zip, error) {
	if _, err := z.fs.Stat(base); err != nil {
		return z, fmt.Errorf("%w: base path %s: %v", ErrNotFound, base, err)
	}
	if !strings.HasSuffix(base, "/") && !strings.HasSuffix(base, string(filepath.Separator)) {
		base += string(filepath.Separator)
	}
	z.base = base
	return z, nil
}

// Path returns the base path, or "" when none is set.
func (z *Zip) Path() string {
	return z.base
}

// SetMask sets the permission mask for directories Extract has to create.
// Masks with bits outside 0777 fall back to DefaultMask.
func (z *Zip) SetMask(mask fs.FileMode) *Zip {
	if mask&^fs.ModePerm != 0 {
		mask = DefaultMask
	}
	z.mask = mask
	return z
}

// Mask returns the permission mask.
func (z *Zip) Mask() fs.FileMode {
	return z.mask
}

// SetCompression sets the compression method for files added from now on.
func (z *Zip) SetCompression(method Method) (*Zip, error) {
	switch method {
	case Store, Deflate, Zstd:
		z.method = method
		return z, nil
	}
	return z, fmt.Errorf("%w: compression method %d", ErrUnsupportedOption, method)
}

// Compression returns the compression method for newly added files.
func (z *Zip) Compression() Method {
	return z.method
}

// dirMode derives the mode for directories created during extraction.
// Every class that may read may also traverse, so 0644 becomes 0755.
func dirMode(mask fs.FileMode) fs.FileMode {
	return mask | (mask&0o444)>>2
}
