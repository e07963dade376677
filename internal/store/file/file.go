// Package file persists the collection set as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moviedex/moviedex/internal/collections"
)

// Store reads and writes the whole collection set at one path. Writes go
// through a temp file and rename so a crash cannot leave a half-written
// document behind.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored collections. A missing file is an empty set, not an
// error; unparseable content is an error the caller may choose to treat as
// empty.
func (s *Store) Load(ctx context.Context) ([]collections.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []collections.Collection{}, nil
		}
		return nil, fmt.Errorf("failed to read collections file: %w", err)
	}

	var cols []collections.Collection
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("failed to parse collections file: %w", err)
	}
	return cols, nil
}

// Save replaces the stored collections.
func (s *Store) Save(ctx context.Context, cols []collections.Collection) error {
	if cols == nil {
		cols = []collections.Collection{}
	}
	data, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collections: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create collections dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write collections file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace collections file: %w", err)
	}
	return nil
}

// Ping reports whether the document's directory is usable.
func (s *Store) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("collections dir unavailable: %w", err)
	}
	return nil
}
