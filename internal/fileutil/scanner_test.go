package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))
	}
}

func TestListDir(t *testing.T) {
	// tmpDir/
	//   b.txt
	//   a.md
	//   Z.bin
	//   sub1/nested.txt
	//   sub2/deeper/deep.txt
	//   .hidden
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"b.txt",
		"a.md",
		"Z.bin",
		".hidden",
		"sub1/nested.txt",
		"sub2/deeper/deep.txt",
	)

	listing, err := ListDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{".hidden", "Z.bin", "a.md", "b.txt"}, listing.FileNames())
	assert.Equal(t, []string{"sub1", "sub2"}, listing.DirNames())
	assert.Equal(t, 6, listing.Total())
	assert.Empty(t, listing.Errors)

	for _, f := range listing.Files {
		assert.True(t, filepath.IsAbs(f.Path), "expected absolute path, got %s", f.Path)
		assert.Equal(t, f.Name, filepath.Base(f.Path))
	}
}

func TestListDirIgnoresNestedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "only.txt")

	before, err := ListDir(tmpDir)
	require.NoError(t, err)

	writeFiles(t, tmpDir, "sub/one.txt", "sub/two.txt", "sub/inner/three.txt")

	after, err := ListDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, before.FileNames(), after.FileNames())
	assert.Equal(t, []string{"sub"}, after.DirNames())
}

func TestListDirEmpty(t *testing.T) {
	listing, err := ListDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, listing.Files)
	assert.Empty(t, listing.Dirs)
	assert.Equal(t, 0, listing.Total())
}

func TestListDirMissing(t *testing.T) {
	_, err := ListDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListDirSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "real.txt", "dir/inside.txt")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real.txt"), filepath.Join(tmpDir, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "dir"), filepath.Join(tmpDir, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "dangling")))

	listing, err := ListDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"link.txt", "real.txt"}, listing.FileNames())
	assert.Equal(t, []string{"dir", "linkdir"}, listing.DirNames())
	assert.Len(t, listing.Errors, 1)
}

func TestCanReadAndCanList(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.txt")

	assert.NoError(t, CanRead(filepath.Join(tmpDir, "a.txt")))
	assert.NoError(t, CanList(tmpDir))
	assert.NoError(t, CanList(t.TempDir()), "empty directory is listable")
	assert.Error(t, CanRead(filepath.Join(tmpDir, "missing.txt")))

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	locked := filepath.Join(tmpDir, "locked.txt")
	require.NoError(t, os.WriteFile(locked, []byte("x"), 0000))
	assert.Error(t, CanRead(locked))

	lockedDir := filepath.Join(tmpDir, "lockeddir")
	require.NoError(t, os.Mkdir(lockedDir, 0000))
	t.Cleanup(func() { os.Chmod(lockedDir, 0755) })
	assert.Error(t, CanList(lockedDir))
}
