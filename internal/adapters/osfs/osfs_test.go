package osfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDirSortedByName(t *testing.T) {
	mem := afero.NewMemMapFs()
	for _, name := range []string{"/d/c.txt", "/d/a.txt", "/d/b.txt"} {
		require.NoError(t, afero.WriteFile(mem, name, []byte(name), 0o644))
	}

	entries, err := NewWithFs(mem).ReadDir("/d")
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, got)
}

func TestWritable(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/dest", 0o755))

	assert.True(t, NewWithFs(mem).Writable("/dest"))
	assert.False(t, NewWithFs(afero.NewReadOnlyFs(mem)).Writable("/dest"))

	// The scratch file is removed again.
	entries, err := afero.ReadDir(mem, "/dest")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRealPathInMemory(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/file.txt", []byte("x"), 0o644))
	f := NewWithFs(mem)

	got, err := f.RealPath("/src/../src/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/src/file.txt"), got)

	_, err = f.RealPath("/src/missing.txt")
	assert.Error(t, err)
}

func TestRealPathResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	f := New()
	got, err := f.RealPath(link)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := f.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestTempFileRenameRemove(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/work", 0o755))
	f := NewWithFs(mem)

	tmp, err := f.TempFile("/work", ".archive.*")
	require.NoError(t, err)
	_, err = tmp.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	require.NoError(t, f.Rename(tmp.Name(), "/work/archive.zip"))
	data, err := afero.ReadFile(mem, "/work/archive.zip")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, f.Remove("/work/archive.zip"))
	_, err = f.Stat("/work/archive.zip")
	assert.True(t, os.IsNotExist(err))
}
