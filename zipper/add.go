package zipper

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Add adds files and directories to the archive. Directories are added
// recursively, applying the skip mode to everything found below them.
// Names are joined with the base path when one is set. Names that do not
// exist are ignored. The first engine failure aborts the remaining names;
// entries added before it stay pending in the session.
func (z *Zip) Add(names ...string) (*Zip, error) {
	if !hasName(names) {
		return z, fmt.Errorf("%w: %s", ErrNotFound, StatusText(StatusNoEnt))
	}
	if z.handle == nil {
		return z, closedError("add")
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := z.addTopLevel(name); err != nil {
			return z, err
		}
	}
	return z, nil
}

func hasName(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}
	return false
}

// addTopLevel resolves name (following symlinks) and adds it at the archive root.
func (z *Zip) addTopLevel(name string) error {
	path := name
	if z.base != "" {
		path = filepath.Join(z.base, name)
	}
	resolved, err := z.fs.RealPath(path)
	if err != nil {
		z.log().Debug("add target not found", "name", name)
		return nil
	}
	info, err := z.fs.Stat(resolved)
	if err != nil {
		return nil
	}

	base := baseName(resolved)
	switch {
	case info.IsDir():
		return z.addDir(resolved, base)
	case info.Mode().IsRegular():
		return z.addFile(resolved, base)
	}
	return nil
}

// addDir adds the directory entry target and walks the children of dir.
// Children are inspected with Lstat, so symlinks found while walking are
// never followed.
func (z *Zip) addDir(dir, target string) error {
	if err := z.handle.AddEmptyDir(target); err != nil {
		return z.archiveError("add", err)
	}
	z.log().Debug("directory added", "entry", target+"/")

	children, err := z.fs.ReadDir(dir)
	if err != nil {
		return &ArchiveError{
			Op:      "add",
			Code:    StatusRead,
			Message: StatusText(StatusRead),
			Err:     fmt.Errorf("reading %s: %w", dir, err),
		}
	}
	for _, child := range children {
		name := child.Name()
		if name == "." || name == ".." {
			continue
		}
		if z.skipMode.Skips(strings.ReplaceAll(name, `\`, "/")) {
			z.log().Debug("skipping filtered file", "name", name)
			continue
		}

		path := filepath.Join(dir, name)
		info, err := z.fs.Lstat(path)
		if err != nil {
			continue
		}
		childTarget := target + "/" + strings.ReplaceAll(name, `\`, "/")
		switch {
		case info.IsDir():
			err = z.addDir(path, childTarget)
		case info.Mode().IsRegular():
			err = z.addFile(path, childTarget)
		default:
			z.log().Debug("skipping non-regular file", "path", path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (z *Zip) addFile(src, target string) error {
	if err := z.handle.AddFile(src, target, z.method); err != nil {
		return z.archiveError("add", err)
	}
	z.log().Debug("file added", "entry", target, "method", z.method.String())
	return nil
}

func baseName(path string) string {
	return strings.ReplaceAll(filepath.Base(path), `\`, "/")
}
