package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists credential bundles keyed by file path.
type Store interface {
	// Load reads the bundle at path. It returns ErrNotFound when no file
	// exists and a CorruptStoreError when the file cannot be decoded.
	Load(path string) (*Bundle, error)

	// Save writes the bundle to path, replacing any previous content
	// atomically.
	Save(path string, bundle *Bundle) error
}

// FileStore stores bundles as JSON files with owner-only permissions.
type FileStore struct{}

// NewFileStore returns a file-backed store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Load reads and decodes the bundle at path.
func (s *FileStore) Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Path: path, Op: "read", Err: err}
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, &CorruptStoreError{Path: path, Err: err}
	}
	if bundle.AccessToken == "" {
		return nil, &CorruptStoreError{Path: path, Err: fmt.Errorf("missing access token")}
	}
	return &bundle, nil
}

// Save writes the bundle to a temporary file in the target directory and
// renames it into place, so readers never observe a partial write.
func (s *FileStore) Save(path string, bundle *Bundle) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return &PersistenceError{Path: path, Op: "create directory for", Err: err}
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Op: "encode", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".token-*.json")
	if err != nil {
		return &PersistenceError{Path: path, Op: "create temp file for", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Path: path, Op: "set permissions on", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: path, Op: "close", Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: path, Op: "replace", Err: err}
	}
	return nil
}
