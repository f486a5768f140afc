package ports

import "time"

// OpenFlag controls how Engine.Open treats the archive path.
type OpenFlag int

const (
	// FlagCreate creates a new empty archive when the path does not exist.
	FlagCreate OpenFlag = 1 << iota
	// FlagCheckConsistency verifies every entry while opening.
	FlagCheckConsistency
)

// Method is a ZIP compression method identifier.
type Method uint16

const (
	MethodStore   Method = 0
	MethodDeflate Method = 8
	// MethodZstd is the WinZip method id for Zstandard.
	MethodZstd Method = 93
)

// String returns the canonical upper-case method name.
func (m Method) String() string {
	switch m {
	case MethodStore:
		return "STORE"
	case MethodDeflate:
		return "DEFLATE"
	case MethodZstd:
		return "ZSTD"
	default:
		return "UNKNOWN"
	}
}

// EntryStat describes one archive entry.
type EntryStat struct {
	Name           string
	Index          int
	Size           uint64
	CompressedSize uint64
	CRC32          uint32
	Modified       time.Time
	Method         Method
	Encrypted      bool
	Dir            bool
}

// Engine abstracts the ZIP archive engine.
// Production code uses the ziparchiver adapter; tests use mocks.MockEngine.
type Engine interface {
	// Open opens the archive at path. Failures are *StatusError values.
	Open(path string, flags OpenFlag) (Handle, error)
}

// Handle is an open archive. All errors returned by a Handle carry a Status
// (see StatusOf). A Handle must not be used after a successful Close.
type Handle interface {
	// NumEntries returns the number of entries currently in the archive.
	NumEntries() int

	// NameAt returns the name of the entry at index.
	NameAt(index int) (string, error)

	// StatAt returns metadata for the entry at index.
	StatAt(index int) (EntryStat, error)

	// ExtractTo writes the named entries below dir.
	ExtractTo(dir string, names []string) error

	// AddEmptyDir adds a directory entry.
	AddEmptyDir(name string) error

	// AddFile adds (or replaces) the entry name with the contents of src.
	AddFile(src, name string, method Method) error

	// DeleteName removes the entry with exactly this name.
	DeleteName(name string) error

	// SetPassword sets the password used to read encrypted entries.
	SetPassword(password string)

	// Status returns the status recorded by the last failed operation.
	Status() Status

	// Close commits pending changes and releases the archive.
	Close() error

	// Discard releases the archive without writing pending changes.
	Discard() error
}
