package zipper

import (
	"errors"
	"fmt"
	"io/fs"
)

// Extract writes entries below destination, creating it when missing.
// With no names every entry the skip mode keeps is extracted; otherwise the
// names are extracted verbatim, regardless of the skip mode.
func (z *Zip) Extract(destination string, names ...string) error {
	if destination == "" {
		return fmt.Errorf("%w: empty destination", ErrInvalidArgument)
	}
	if z.handle == nil {
		return closedError("extract")
	}

	if _, err := z.fs.Stat(destination); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: destination %s: %v", ErrPermission, destination, err)
		}
		if err := z.fs.MkdirAll(destination, dirMode(z.mask)); err != nil {
			return &ArchiveError{
				Op:      "extract",
				Code:    StatusWrite,
				Message: "Error creating folder " + destination,
				Err:     err,
			}
		}
	}
	if !z.fs.Writable(destination) {
		return fmt.Errorf("%w: destination %s is not writable", ErrPermission, destination)
	}

	files := names
	if len(files) == 0 {
		files = z.filteredFiles()
	}

	if err := z.handle.ExtractTo(destination, files); err != nil {
		return z.archiveError("extract", err)
	}
	z.log().Debug("entries extracted", "destination", destination, "count", len(files))
	return nil
}
