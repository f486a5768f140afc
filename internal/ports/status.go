package ports

import (
	"errors"
	"fmt"
)

// Status is a numeric archive engine status code.
// The values follow the libzip ER_* numbering so archives and messages
// behave the same way across tools that report those codes.
type Status int

const (
	StatusOK                     Status = 0
	StatusMultiDisk              Status = 1
	StatusRename                 Status = 2
	StatusClose                  Status = 3
	StatusSeek                   Status = 4
	StatusRead                   Status = 5
	StatusWrite                  Status = 6
	StatusCRC                    Status = 7
	StatusZipClosed              Status = 8
	StatusNoEnt                  Status = 9
	StatusExists                 Status = 10
	StatusOpen                   Status = 11
	StatusTmpOpen                Status = 12
	StatusZlib                   Status = 13
	StatusMemory                 Status = 14
	StatusChanged                Status = 15
	StatusCompNotSupp            Status = 16
	StatusEOF                    Status = 17
	StatusInval                  Status = 18
	StatusNoZip                  Status = 19
	StatusInternal               Status = 20
	StatusIncons                 Status = 21
	StatusRemove                 Status = 22
	StatusDeleted                Status = 23
	StatusEncryptionNotSupported Status = 24
	StatusNoPassword             Status = 26
)

var statusText = map[Status]string{
	StatusOK:                     "No error",
	StatusMultiDisk:              "Multi-disk zip archives not supported",
	StatusRename:                 "Renaming temporary file failed",
	StatusClose:                  "Closing zip archive failed",
	StatusSeek:                   "Seek error",
	StatusRead:                   "Read error",
	StatusWrite:                  "Write error",
	StatusCRC:                    "CRC error",
	StatusZipClosed:              "Containing zip archive was closed",
	StatusNoEnt:                  "No such file",
	StatusExists:                 "File already exists",
	StatusOpen:                   "Can't open file",
	StatusTmpOpen:                "Failure to create temporary file",
	StatusZlib:                   "Zlib error",
	StatusMemory:                 "Malloc failure",
	StatusChanged:                "Entry has been changed",
	StatusCompNotSupp:            "Compression method not supported",
	StatusEOF:                    "Premature EOF",
	StatusInval:                  "Invalid argument",
	StatusNoZip:                  "Not a zip archive",
	StatusInternal:               "Internal error",
	StatusIncons:                 "Zip archive inconsistent",
	StatusRemove:                 "Can't remove file",
	StatusDeleted:                "Entry has been deleted",
	StatusEncryptionNotSupported: "Encryption method not supported",
	StatusNoPassword:             "No password provided",
}

// StatusText returns the human-readable message for code.
// Codes outside the table render as "Unknown status <code>".
func StatusText(code Status) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return fmt.Sprintf("Unknown status %d", int(code))
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return StatusText(s)
}

// StatusError is returned by engine operations. It carries the engine status
// and, when available, the underlying cause.
type StatusError struct {
	Code Status
	Err  error
}

// NewStatusError creates a StatusError for code wrapping err (which may be nil).
func NewStatusError(code Status, err error) *StatusError {
	return &StatusError{Code: code, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", StatusText(e.Code), e.Err)
	}
	return StatusText(e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the engine status from err.
// A nil error is StatusOK; an error without a status is StatusInternal.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return StatusInternal
}
