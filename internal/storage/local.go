package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore reads transcript files from a directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a filesystem-backed store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

func (s *LocalStore) LocalPath(key string) string {
	full := s.path(key)
	if _, err := os.Stat(full); err == nil {
		return full
	}
	return ""
}

func (s *LocalStore) Exists(ctx context.Context, key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

func (s *LocalStore) Type() string { return "local" }

// Dir returns the root directory.
func (s *LocalStore) Dir() string { return s.dir }

// path resolves key under the root. Absolute keys are used as given so the
// CLI can point at files outside the configured directory.
func (s *LocalStore) path(key string) string {
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.dir, key)
}
