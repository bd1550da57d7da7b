// Package local implements blob storage on a single base directory of the
// local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/filevault/filevault-server/internal/model"
)

var _ model.Storage = (*Store)(nil)

// Store keeps every blob as a file directly under its base directory. Keys
// are resolved against the base directory and any key escaping it is
// rejected with model.ErrPathTraversal.
type Store struct {
	baseDir string
}

// NewStore creates the base directory if needed and returns a Store rooted
// at its absolute path.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Store{baseDir: abs}, nil
}

// resolve maps a key to a path under the base directory.
func (s *Store) resolve(key string) (string, error) {
	path := filepath.Join(s.baseDir, key)
	if !strings.HasPrefix(path, s.baseDir+string(os.PathSeparator)) {
		return "", model.ErrPathTraversal
	}
	return path, nil
}

// Upload writes the blob with O_EXCL so the existence check and the write
// cannot race into overwriting a stored file.
func (s *Store) Upload(ctx context.Context, key string, reader io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return model.ErrDuplicateFile
		}
		return fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}
	return nil
}

func (s *Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// List returns the keys of all stored blobs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	keys := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
