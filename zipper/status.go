package zipper

import "github.com/mcdonaldj/zipkit/internal/ports"

// Status is an archive engine status code (libzip ER_* numbering).
type Status = ports.Status

// Engine status codes.
const (
	StatusOK                     = ports.StatusOK
	StatusMultiDisk              = ports.StatusMultiDisk
	StatusRename                 = ports.StatusRename
	StatusClose                  = ports.StatusClose
	StatusSeek                   = ports.StatusSeek
	StatusRead                   = ports.StatusRead
	StatusWrite                  = ports.StatusWrite
	StatusCRC                    = ports.StatusCRC
	StatusZipClosed              = ports.StatusZipClosed
	StatusNoEnt                  = ports.StatusNoEnt
	StatusExists                 = ports.StatusExists
	StatusOpen                   = ports.StatusOpen
	StatusTmpOpen                = ports.StatusTmpOpen
	StatusZlib                   = ports.StatusZlib
	StatusMemory                 = ports.StatusMemory
	StatusChanged                = ports.StatusChanged
	StatusCompNotSupp            = ports.StatusCompNotSupp
	StatusEOF                    = ports.StatusEOF
	StatusInval                  = ports.StatusInval
	StatusNoZip                  = ports.StatusNoZip
	StatusInternal               = ports.StatusInternal
	StatusIncons                 = ports.StatusIncons
	StatusRemove                 = ports.StatusRemove
	StatusDeleted                = ports.StatusDeleted
	StatusEncryptionNotSupported = ports.StatusEncryptionNotSupported
	StatusNoPassword             = ports.StatusNoPassword
)

// StatusText returns the message for an engine status code, or
// "Unknown status <code>" for codes outside the table.
func StatusText(code Status) string {
	return ports.StatusText(code)
}
