package datafile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmaster/core/internal/infrastructure/config"
)

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "habits.json")

	f, err := New(config.StorageConfig{Path: path})
	require.NoError(t, err)

	assert.Equal(t, path, f.Path())
	assert.DirExists(t, filepath.Dir(path))
	assert.NoError(t, f.HealthCheck())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	f, err := New(config.StorageConfig{Path: "~/habits/data.json"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "habits", "data.json"), f.Path())
}

func TestReadAll_Missing(t *testing.T) {
	f, err := New(config.StorageConfig{Path: filepath.Join(t.TempDir(), "habits.json")})
	require.NoError(t, err)

	data, exists, err := f.ReadAll()
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, data)
	assert.Equal(t, false, f.GetInfo()["exists"])
}

func TestReplaceAtomically(t *testing.T) {
	dir := t.TempDir()
	f, err := New(config.StorageConfig{Path: filepath.Join(dir, "habits.json")})
	require.NoError(t, err)

	require.NoError(t, f.ReplaceAtomically(func(w io.Writer) error {
		_, err := io.WriteString(w, `{"a":1}`)
		return err
	}))

	data, exists, err := f.ReadAll()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, `{"a":1}`, string(data))

	info := f.GetInfo()
	assert.Equal(t, true, info["exists"])
	assert.Equal(t, int64(7), info["size_bytes"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestReplaceAtomically_FailureKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habits.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	f, err := New(config.StorageConfig{Path: path})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = f.ReplaceAtomically(func(w io.Writer) error {
		_, _ = io.WriteString(w, "half")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReplaceAtomically_FileMode(t *testing.T) {
	write := func(f *DataFile) {
		require.NoError(t, f.ReplaceAtomically(func(w io.Writer) error {
			_, err := io.WriteString(w, "{}")
			return err
		}))
	}

	t.Run("keeps existing mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "habits.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		require.NoError(t, os.Chmod(path, 0o640))
		f, err := New(config.StorageConfig{Path: path})
		require.NoError(t, err)

		write(f)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "habits.json")
		f, err := New(config.StorageConfig{Path: path})
		require.NoError(t, err)

		write(f)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, defaultFileMode, info.Mode().Perm())
	})
}

func TestHealthCheck_NotRegular(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habits.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	f := &DataFile{path: path}
	assert.Error(t, f.HealthCheck())
}
