package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the same contract checks against any FileSystem rooted at dir.
func exercise(t *testing.T, fsys FileSystem, dir string) {
	t.Helper()

	frames := filepath.Join(dir, "frames")
	require.NoError(t, fsys.MkdirAll(frames, 0o755))
	assert.True(t, fsys.Exists(frames))

	path := filepath.Join(frames, "step_000.png")
	assert.False(t, fsys.Exists(path))

	w, err := fsys.Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "png-bytes")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	grid := filepath.Join(dir, "grid.json")
	require.NoError(t, fsys.WriteFile(grid, []byte("[[0]]"), 0o644))
	got, err = fsys.ReadFile(grid)
	require.NoError(t, err)
	assert.Equal(t, "[[0]]", string(got))

	_, err = fsys.ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOSFileSystem(t *testing.T) {
	exercise(t, OSFileSystem{}, t.TempDir())
}

func TestMemoryFileSystem(t *testing.T) {
	m := NewMemoryFileSystem()
	exercise(t, m, "/out")

	assert.Equal(t, []string{"/out/frames/step_000.png", "/out/grid.json"}, m.Files())
	assert.True(t, m.Exists("/out"), "parents are created implicitly")
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()

	w, err := m.Create("a/b.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)

	got, err := m.ReadFile("a/b.txt")
	require.NoError(t, err)
	assert.Empty(t, got, "contents land on Close")

	require.NoError(t, w.Close())
	got, _ = m.ReadFile("a/b.txt")
	assert.Equal(t, "hello", string(got))

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrClosed)
	assert.ErrorIs(t, w.Close(), fs.ErrClosed)
}

func TestMemoryFileSystem_FileDirConflicts(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.WriteFile("x/file", []byte("1"), 0o644))

	assert.ErrorIs(t, m.MkdirAll("x/file", 0o755), fs.ErrExist)
	assert.ErrorIs(t, m.WriteFile("x", []byte("2"), 0o644), fs.ErrExist)
}

func TestMemoryFileSystem_ReadReturnsCopy(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.WriteFile("f", []byte("abc"), 0o644))

	got, _ := m.ReadFile("f")
	got[0] = 'z'
	again, _ := m.ReadFile("f")
	assert.Equal(t, "abc", string(again))
}
