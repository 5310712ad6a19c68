package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkWritesUnderRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewSink(dir, nil)
	require.NoError(t, err)

	path, err := sink.WriteText("images/README.md", "hello")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "images", "README.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestSinkPreventsTraversal(t *testing.T) {
	t.Parallel()

	sink, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = sink.WriteText("../escape.txt", "x")
	require.Error(t, err)
	_, err = sink.WriteText("/etc/passwd", "x")
	require.Error(t, err)
	_, err = sink.WriteText("", "x")
	require.Error(t, err)
}

func TestSinkClearDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewSink(dir, nil)
	require.NoError(t, err)

	_, err = sink.WriteFile("images/a.jpeg", []byte{1})
	require.NoError(t, err)
	_, err = sink.WriteFile("images/b.jpeg", []byte{2})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images", "keep"), 0o755))

	removed, err := sink.ClearDir("images")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	entries, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	removed, err = sink.ClearDir("fresh")
	require.NoError(t, err)
	require.Zero(t, removed)
	require.DirExists(t, filepath.Join(dir, "fresh"))

	_, err = sink.ClearDir(".")
	require.Error(t, err)
}
