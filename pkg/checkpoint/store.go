// Package checkpoint persists the enumerated transcript IDs between the enumerate and export runs.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"transcript-export/pkg/bom"
	"transcript-export/pkg/domain"
)

var ErrCorrupt = errors.New("checkpoint is not a JSON array of transcript IDs")

// Store reads and writes the ID list as a JSON array in a single file.
type Store struct {
	path string
}

// NewStore creates a file-backed checkpoint store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a checkpoint has been written.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads the ID list back in the order it was saved. A leading BOM is tolerated.
func (s *Store) Load() ([]domain.TranscriptID, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var ids []domain.TranscriptID
	if err := json.Unmarshal(bom.Strip(data), &ids); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return ids, nil
}

// Save overwrites the checkpoint with ids.
// The file is written to a temporary sibling first and renamed into place.
func (s *Store) Save(ids []domain.TranscriptID) error {
	if ids == nil {
		ids = []domain.TranscriptID{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
