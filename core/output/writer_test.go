package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build", "iconfont")

	w, err := New(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, w.OutputDir)
}

func TestWriteReplacesWholesale(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := w.Write("icon-mapping.json", []byte(`{"a":1,"b":2}`))
	require.NoError(t, err)
	path2, err := w.Write("icon-mapping.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	entries, err := os.ReadDir(w.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x"), []byte("x"), 0644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing file")
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iconfont.ttf"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon-mapping.json"), []byte("{}"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "keep"), 0755))

	removed, err := Clean(dir)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.NoFileExists(t, filepath.Join(dir, "iconfont.ttf"))
	assert.DirExists(t, filepath.Join(dir, "keep"))

	removed, err = Clean(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Empty(t, removed)
}
