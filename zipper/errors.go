package zipper

import (
	"errors"
	"fmt"

	"github.com/mcdonaldj/zipkit/internal/ports"
)

// Sentinel errors for argument and filesystem failures. They are wrapped
// with context, so match them with errors.Is.
var (
	// ErrInvalidArgument indicates an empty or malformed argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates that a path to open, add or use as base does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates an extraction destination that cannot be written.
	ErrPermission = errors.New("permission denied")

	// ErrUnsupportedOption indicates an unknown skip mode or compression method.
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrArchive matches every *ArchiveError.
	ErrArchive = errors.New("archive error")
)

// ArchiveError reports a failure of the archive engine.
type ArchiveError struct {
	// Op is the session operation that failed ("open", "add", "extract", ...).
	Op string
	// Code is the engine status.
	Code Status
	// Message is the human readable text for the failure.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ArchiveError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrArchive.
func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchive
}

// newArchiveError builds an ArchiveError from an engine error, falling back
// to fallback when err carries no status.
func newArchiveError(op string, err error, fallback Status) *ArchiveError {
	code := fallback
	var se *ports.StatusError
	if errors.As(err, &se) {
		code = se.Code
	}
	return &ArchiveError{Op: op, Code: code, Message: StatusText(code), Err: err}
}

func closedError(op string) *ArchiveError {
	return &ArchiveError{Op: op, Code: StatusZipClosed, Message: StatusText(StatusZipClosed)}
}
