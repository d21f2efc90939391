// Package filesystem holds the swappable afero backend every package reads and
// writes through. Tests switch it to an in-memory filesystem.
package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes data to a temporary sibling of path and renames it into place.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := backend.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := backend.TempFile(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = backend.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = backend.Remove(tmp.Name())
		return err
	}

	return backend.Rename(tmp.Name(), path)
}
