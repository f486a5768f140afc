package zipper

import (
	"errors"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/internal/ports"
)

func TestExtractEmptyDestination(t *testing.T) {
	z, handle, _ := mockSession(t, "a.txt")

	err := z.Extract("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, handle.ExtractCalls)
}

func TestExtractCreatesDestinationWithMask(t *testing.T) {
	z, handle, fs := mockSession(t, "a.txt")
	z.SetMask(0o640)

	require.NoError(t, z.Extract("/work/out/deep"))

	info, err := fs.Stat("/work/out/deep")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dirMode(0o640), info.Mode().Perm())
	require.Len(t, handle.ExtractCalls, 1)
	assert.Equal(t, "/work/out/deep", handle.ExtractCalls[0].Dir)
}

func TestExtractDestinationCreationFailure(t *testing.T) {
	z, handle, fs := mockSession(t, "a.txt")
	fs.Errors["MkdirAll /work/out"] = errors.New("read-only filesystem")

	err := z.Extract("/work/out")
	var archiveErr *ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.Equal(t, StatusWrite, archiveErr.Code)
	assert.Equal(t, "Error creating folder /work/out", archiveErr.Message)
	assert.Empty(t, handle.ExtractCalls)
}

func TestExtractUnwritableDestination(t *testing.T) {
	z, handle, fs := mockSession(t, "a.txt")
	require.NoError(t, fs.MkdirAll("/work/out", 0o755))
	fs.ReadOnly["/work/out"] = true

	err := z.Extract("/work/out")
	assert.ErrorIs(t, err, ErrPermission)
	assert.Empty(t, handle.ExtractCalls)
}

func TestExtractSubsetIgnoresSkipMode(t *testing.T) {
	z, handle, _ := mockSession(t, ".hidden", "a.txt")
	_, err := z.SetSkipped("hidden")
	require.NoError(t, err)

	require.NoError(t, z.Extract("/work/out", ".hidden"))
	assert.Equal(t, []string{".hidden"}, handle.ExtractCalls[0].Names)
}

func TestExtractPassesNormalizedNames(t *testing.T) {
	z, handle, _ := mockSession(t, `docs\a.txt`, `.git\config`, "b.txt")
	_, err := z.SetSkipped("hidden")
	require.NoError(t, err)

	require.NoError(t, z.Extract("/work/out"))
	require.Len(t, handle.ExtractCalls, 1)
	assert.Equal(t, []string{"docs/a.txt", "b.txt"}, handle.ExtractCalls[0].Names)
}

func TestExtractEngineFailure(t *testing.T) {
	z, handle, _ := mockSession(t, "a.txt")
	handle.Errors["ExtractTo"] = ports.NewStatusError(ports.StatusCRC, nil)

	err := z.Extract("/work/out")
	var archiveErr *ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.Equal(t, "extract", archiveErr.Op)
	assert.Equal(t, StatusCRC, archiveErr.Code)
	assert.Equal(t, "CRC error", archiveErr.Message)
}

func TestExtractMissingEntry(t *testing.T) {
	_, opt := memFS(t, map[string]string{"/src/a.txt": "a"})

	z, err := Create("/work/test.zip", opt)
	require.NoError(t, err)
	_, err = z.Add("/src/a.txt")
	require.NoError(t, err)
	require.NoError(t, z.Close())

	z, err = Open("/work/test.zip", opt)
	require.NoError(t, err)
	defer func() { _ = z.Close() }()

	err = z.Extract("/work/out", "nope.txt")
	var archiveErr *ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.Equal(t, StatusNoEnt, archiveErr.Code)
}

func TestExtractThenList(t *testing.T) {
	mem, opt := memFS(t, tree)

	z, err := Create("/work/test.zip", opt)
	require.NoError(t, err)
	_, err = z.Add("/src/dir", "/src/.env")
	require.NoError(t, err)
	require.NoError(t, z.Close())

	z, err = Open("/work/test.zip", opt)
	require.NoError(t, err)
	defer func() { _ = z.Close() }()
	require.NoError(t, z.Extract("/work/out"))

	var onDisk []string
	walkErr := afero.Walk(mem, "/work/out", func(path string, info os.FileInfo, err error) error {
		if err != nil || path == "/work/out" {
			return err
		}
		rel := strings.TrimPrefix(path, "/work/out/")
		if info.IsDir() {
			rel += "/"
		}
		onDisk = append(onDisk, rel)
		return nil
	})
	require.NoError(t, walkErr)

	listed := list(t, z)
	sort.Strings(listed)
	sort.Strings(onDisk)
	assert.Equal(t, listed, onDisk)

	data, err := afero.ReadFile(mem, "/work/out/dir/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestExtractHiddenSkippedOnRealEngine(t *testing.T) {
	mem, opt := memFS(t, tree)

	z, err := Create("/work/test.zip", opt)
	require.NoError(t, err)
	_, err = z.Add("/src/.env", "/src/dir")
	require.NoError(t, err)
	require.NoError(t, z.Close())

	z, err = Open("/work/test.zip", opt)
	require.NoError(t, err)
	defer func() { _ = z.Close() }()
	_, err = z.SetSkipped("hidden")
	require.NoError(t, err)
	require.NoError(t, z.Extract("/work/out"))

	// Only top-level names are filtered on extract.
	exists, _ := afero.Exists(mem, "/work/out/.env")
	assert.False(t, exists)
	exists, _ = afero.Exists(mem, "/work/out/dir/.hidden")
	assert.True(t, exists)
}

func TestExtractReadOnlyFilesystem(t *testing.T) {
	mem, opt := memFS(t, map[string]string{"/src/a.txt": "a"})

	z, err := Create("/work/test.zip", opt)
	require.NoError(t, err)
	_, err = z.Add("/src/a.txt")
	require.NoError(t, err)
	require.NoError(t, z.Close())

	z, err = Open("/work/test.zip", WithFileSystem(osfs.NewWithFs(afero.NewReadOnlyFs(mem))))
	require.NoError(t, err)
	defer func() { _ = z.Close() }()

	err = z.Extract("/work/out")
	var archiveErr *ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.Equal(t, "Error creating folder /work/out", archiveErr.Message)

	err = z.Extract("/work")
	assert.ErrorIs(t, err, ErrPermission)
}
