// Package fs stores cache artifacts on the local filesystem.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// Storage implements ports.ArtifactStorage on the local filesystem.
type Storage struct{}

var _ ports.ArtifactStorage = (*Storage)(nil)

// NewStorage creates a new Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Exists reports whether a regular file exists at path.
func (s *Storage) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrArtifactReadFailed.Error()), "path", path)
	}
	if !info.Mode().IsRegular() {
		return false, zerr.With(domain.ErrArtifactReadFailed, "path", path)
	}
	return true, nil
}

// CheckWritable verifies that the artifact can be replaced. An existing file
// must itself be writable, and its directory must be writable and searchable
// since the replacement is a rename.
func (s *Storage) CheckWritable(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := unix.Access(path, unix.W_OK); err != nil {
			return &domain.StorageUnwritableError{Path: path, Cause: &fs.PathError{Op: "access", Path: path, Err: err}}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &domain.StorageUnwritableError{Path: path, Cause: err}
	}

	dir := filepath.Dir(path)
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return &domain.StorageUnwritableError{Path: dir, Cause: &fs.PathError{Op: "access", Path: dir, Err: err}}
	}
	return nil
}

// WriteAtomic writes data to a temporary file next to path and renames it
// over path, so readers see either the old or the new artifact.
// A temporary file that cannot be created is reported as a
// *domain.StorageUnwritableError.
func (s *Storage) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, domain.TempFilePattern)
	if err != nil {
		return &domain.StorageUnwritableError{
			Path:  dir,
			Cause: zerr.Wrap(err, domain.ErrTempFileCreateFailed.Error()),
		}
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", tmpName)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", tmpName)
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", tmpName)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}

	return nil
}

// Read returns the artifact content. A missing file yields domain.ErrArtifactNotFound.
func (s *Storage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Artifact path comes from project configuration
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(domain.ErrArtifactNotFound, "path", path)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArtifactReadFailed.Error()), "path", path)
	}
	return data, nil
}

// Remove deletes the artifact. A missing file is not an error.
func (s *Storage) Remove(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return zerr.With(zerr.Wrap(err, domain.ErrArtifactRemoveFailed.Error()), "path", path)
}

// EnsureDir creates dir and its parents with domain.DirPerm.
func (s *Storage) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceCreateFailed.Error()), "path", dir)
	}
	return nil
}
