// Package storage provides the local-disk implementation of the avatar
// file store. Filenames are generated by the caller and unique, so a plain
// exclusive create is race-free without any locking.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes files into a single flat directory.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the directory exists and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes content under name. The name must be fresh; an existing file
// with the same name is an error, never overwritten.
func (s *LocalStore) Save(name string, content io.Reader) error {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("write upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close upload file: %w", err)
	}
	return nil
}

// Remove deletes a stored file. Used to compensate a failed user update.
func (s *LocalStore) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
