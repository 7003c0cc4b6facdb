// Package cursor persists the last-delivered post id between scheduled runs.
package cursor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cursor marks the newest post already handled. A zero LastSeenID means the
// job has never run before.
type Cursor struct {
	LastSeenID string `json:"last_seen_id,omitempty"`
}

// FileStore keeps the cursor in a small JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("cursor: path is required")
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted cursor. A missing file is a zero cursor, not an
// error. An unreadable or corrupt file returns a zero cursor together with
// the error so the caller can degrade to first-run semantics.
func (s *FileStore) Load() (Cursor, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Cursor{}, nil
	}
	if err != nil {
		return Cursor{}, fmt.Errorf("read cursor: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("parse cursor: %w", err)
	}
	return c, nil
}

// Save durably replaces the cursor, creating the state directory if needed.
// The write goes through a temp file and rename so a crash mid-write never
// leaves a partially-written cursor behind.
func (s *FileStore) Save(c Cursor) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cursor-*")
	if err != nil {
		return fmt.Errorf("create temp cursor: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write cursor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close cursor: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace cursor: %w", err)
	}
	return nil
}
