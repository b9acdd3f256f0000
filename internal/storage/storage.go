package storage

import (
	"fmt"
	"os"
	"path/filepath"

	dasherrors "github.com/abatilo/taskdash/internal/errors"
)

const (
	dataDir = ".taskdash"
	fileExt = ".json"
	dbFile  = "taskdash.db"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// KV is a local key-value store holding opaque blobs.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// DefaultDir returns ~/.taskdash.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDir), nil
}

// IsInitialized checks if the data directory exists.
func IsInitialized(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Init creates the data directory.
func Init(dir string, force bool) error {
	if IsInitialized(dir) && !force {
		return dasherrors.AlreadyInitializedError{Path: dir}
	}
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	return os.MkdirAll(dir, 0o755)
}

// Open returns the named backend rooted at dir. The memory backend ignores dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendFile:
		if !IsInitialized(dir) {
			return nil, dasherrors.NotInitializedError{Path: dir}
		}
		return NewFileKV(dir), nil
	case BackendSQLite:
		if !IsInitialized(dir) {
			return nil, dasherrors.NotInitializedError{Path: dir}
		}
		return NewSQLiteKV(filepath.Join(dir, dbFile))
	default:
		return nil, dasherrors.UnknownBackendError{Name: backend}
	}
}

// FileKV stores each key as a JSON file inside a directory.
type FileKV struct {
	basePath string
}

// NewFileKV creates a FileKV rooted at path.
func NewFileKV(path string) *FileKV {
	return &FileKV{basePath: path}
}

// BasePath returns the directory holding the key files.
func (s *FileKV) BasePath() string {
	return s.basePath
}

// keyPath returns the full path for a key file.
func (s *FileKV) keyPath(key string) string {
	return filepath.Join(s.basePath, SanitizePath(key)+fileExt)
}

// Get reads a key from disk.
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	if !IsInitialized(s.basePath) {
		return nil, false, dasherrors.NotInitializedError{Path: s.basePath}
	}
	data, err := os.ReadFile(s.keyPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes a key atomically via a temp file.
func (s *FileKV) Set(key string, value []byte) error {
	if !IsInitialized(s.basePath) {
		return dasherrors.NotInitializedError{Path: s.basePath}
	}
	path := s.keyPath(key)
	tmpPath := path + ".tmp"

	//nolint:gosec // G306: 0644 is appropriate for user-readable data files
	if err := os.WriteFile(tmpPath, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}

// Delete removes a key file. Missing keys are not an error.
func (s *FileKV) Delete(key string) error {
	err := os.Remove(s.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op for files.
func (s *FileKV) Close() error { return nil }
