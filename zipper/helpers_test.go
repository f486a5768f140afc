package zipper

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/internal/mocks"
)

// memFS returns an in-memory filesystem seeded with files (path -> content).
func memFS(t *testing.T, files map[string]string) (afero.Fs, Option) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/work", 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0o644))
	}
	return mem, WithFileSystem(osfs.NewWithFs(mem))
}

// mockSession opens a session over a mock engine whose archive holds entries.
func mockSession(t *testing.T, entries ...string) (*Zip, *mocks.MockHandle, *mocks.MockFileSystem) {
	t.Helper()
	engine := mocks.NewMockEngine()
	handle := mocks.NewMockHandle(entries...)
	engine.Handles["/work/test.zip"] = handle
	fs := mocks.NewMockFileSystem()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	z, err := Open("/work/test.zip", WithEngine(engine), WithFileSystem(fs))
	require.NoError(t, err)
	return z, handle, fs
}

func list(t *testing.T, z *Zip) []string {
	t.Helper()
	files, err := z.ListFiles()
	require.NoError(t, err)
	return files
}
