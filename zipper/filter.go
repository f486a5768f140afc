package zipper

import (
	"fmt"
	"strings"
)

// SkipMode selects which hidden or system files are left out when adding
// directories recursively or extracting a whole archive.
type SkipMode string

const (
	// SkipNone keeps every file.
	SkipNone SkipMode = "NONE"
	// SkipHidden skips names starting with ".".
	SkipHidden SkipMode = "HIDDEN"
	// SkipComodojo skips names starting with "._" (AppleDouble resource forks).
	SkipComodojo SkipMode = "COMODOJO"
	// SkipAll skips names starting with "." or "._".
	SkipAll SkipMode = "ALL"
)

// ParseSkipMode normalizes mode case-insensitively.
func ParseSkipMode(mode string) (SkipMode, error) {
	m := SkipMode(strings.ToUpper(mode))
	switch m {
	case SkipNone, SkipHidden, SkipComodojo, SkipAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: skip mode %q", ErrUnsupportedOption, mode)
}

// Skips reports whether name is filtered out under this mode.
func (m SkipMode) Skips(name string) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	switch m {
	case SkipHidden, SkipAll:
		return true
	case SkipComodojo:
		return strings.HasPrefix(name, "._")
	}
	return false
}

// filteredFiles lists the slash-normalized names of every entry the current
// skip mode keeps. Entries the engine cannot stat are left out.
func (z *Zip) filteredFiles() []string {
	n := z.handle.NumEntries()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		st, err := z.handle.StatAt(i)
		if err != nil {
			z.log().Debug("skipping unreadable entry", "index", i, "error", err)
			continue
		}
		name := strings.ReplaceAll(st.Name, `\`, "/")
		if z.skipMode.Skips(name) {
			z.log().Debug("skipping filtered entry", "name", name)
			continue
		}
		files = append(files, name)
	}
	return files
}
