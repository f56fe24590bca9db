package datafile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/habitmaster/core/internal/infrastructure/config"
)

const defaultFileMode fs.FileMode = 0o644

// DataFile is the durable location of the habit store. It holds no open
// handle: every read or write opens, finishes and closes the file.
type DataFile struct {
	path string
}

// New resolves the configured path and makes sure its directory exists
func New(cfg config.StorageConfig) (*DataFile, error) {
	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data file path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &DataFile{path: path}, nil
}

// Path returns the absolute path of the data file
func (f *DataFile) Path() string {
	return f.path
}

// ReadAll returns the file contents. exists is false when the file has not
// been created yet, which is not an error.
func (f *DataFile) ReadAll() (data []byte, exists bool, err error) {
	data, err = os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read data file: %w", err)
	}
	return data, true, nil
}

// ReplaceAtomically writes a new version of the file through fn. The content
// goes to a temp file in the same directory which is synced and renamed over
// the target, so readers see either the old file or the complete new one.
func (f *DataFile) ReplaceAtomically(fn func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp data file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(f.fileMode()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set data file mode: %w", err)
	}

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp data file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp data file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp data file: %w", err)
	}

	return nil
}

// fileMode keeps the permissions of an existing data file. A new file gets
// defaultFileMode rather than the 0600 of a temp file.
func (f *DataFile) fileMode() fs.FileMode {
	info, err := os.Stat(f.path)
	if err != nil {
		return defaultFileMode
	}
	return info.Mode().Perm()
}

// HealthCheck verifies the data directory is usable and the file, if present, is regular
func (f *DataFile) HealthCheck() error {
	dir, err := os.Stat(filepath.Dir(f.path))
	if err != nil {
		return fmt.Errorf("data directory health check failed: %w", err)
	}
	if !dir.IsDir() {
		return fmt.Errorf("data directory health check failed: %s is not a directory", filepath.Dir(f.path))
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("data file health check failed: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("data file health check failed: %s is not a regular file", f.path)
	}

	return nil
}

// GetInfo returns file statistics for health reporting
func (f *DataFile) GetInfo() map[string]interface{} {
	info := map[string]interface{}{
		"path":   f.path,
		"exists": false,
	}

	stat, err := os.Stat(f.path)
	if err != nil {
		return info
	}

	info["exists"] = true
	info["size_bytes"] = stat.Size()
	info["modified"] = stat.ModTime().UTC().Format("2006-01-02T15:04:05Z07:00")
	return info
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
