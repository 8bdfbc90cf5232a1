package stream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWriteRejected = errors.New("read-only file system")

// readOnlyFS rejects every open that could write or create.
type readOnlyFS struct {
	fs.FileSystem
}

func (r readOnlyFS) OpenFile(name string, flag int, perm os.FileMode) (fs.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: errWriteRejected}
	}
	return r.FileSystem.OpenFile(name, flag, perm)
}

func (readOnlyFS) MkdirAll(path string, _ os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: errWriteRejected}
}

func TestNames(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"b.json.00000", "a.json.00000", "a.json.00001", "notes.txt", "c.json.1"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.json.00000"), 0o755))

	names, err := Names(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	segs, err := List(nil, dir, "foo")
	require.NoError(t, err)
	assert.Empty(t, segs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "listing must not create segments")

	for _, f := range []string{"foo.json.00001", "foo.json.00000", "foobar.json.00000"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
	segs, err = List(nil, dir, "foo")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, filepath.Join(dir, "foo.json.00000"), segs[0].Path())
	assert.Equal(t, filepath.Join(dir, "foo.json.00001"), segs[1].Path())
}

func TestList_Gap(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"foo.json.00000", "foo.json.00002"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
	_, err := List(nil, dir, "foo")
	require.ErrorIs(t, err, ErrNonContiguous)
}

func TestList_ReadOnlyFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.json.00000"), []byte("a\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.json.00001"), []byte("c\n"), 0o644))

	rofs := readOnlyFS{fs.Default}
	segs, err := List(rofs, dir, "foo")
	require.NoError(t, err)
	require.Len(t, segs, 2)

	size, err := segs[0].Size()
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)

	var lines []string
	for line, err := range segs[1].Lines() {
		require.NoError(t, err)
		lines = append(lines, string(line))
	}
	assert.Equal(t, []string{"c\n"}, lines)
}

func TestList_IgnoresNonCanonicalIndex(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"foo.json.00000", "foo.json.000001"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}

	segs, err := List(nil, dir, "foo")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, filepath.Join(dir, "foo.json.00000"), segs[0].Path())

	_, err = os.Stat(filepath.Join(dir, "foo.json.00001"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
