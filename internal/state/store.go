// Package state persists the bot's single history document as a JSON
// file. Writes are atomic (temp file + rename) so a concurrent reader
// sees either the old or the new complete document. There is no locking:
// the bot is single-process and run-to-completion, so two overlapping
// invocations can race on the file. That is a documented limitation, not
// a guarantee the store defends against.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/spanbot/pkg/models"
)

var (
	// ErrNotFound means no history document exists yet. Callers
	// substitute models.NewHistory() for a first run.
	ErrNotFound = errors.New("history file does not exist")

	// ErrStateIO means the document exists but could not be read or
	// parsed. Unlike ErrNotFound this is fatal: silently replacing a
	// corrupt document with defaults would mask data loss.
	ErrStateIO = errors.New("history file unreadable")
)

// FileStore loads and saves a History document at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the whole history document. Returns ErrNotFound when the
// file is absent and ErrStateIO (wrapped) on any other failure.
func (s *FileStore) Load() (*models.History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStateIO, err)
	}

	var h models.History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateIO, err)
	}
	if h.Used == nil {
		h.Used = map[string][]int{}
	}
	return &h, nil
}

// Save overwrites the persisted document with the given state. The
// document is written to a temporary file in the same directory and
// renamed into place, so a partial write is never visible.
func (s *FileStore) Save(h *models.History) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStateIO, err)
	}
	return nil
}

// LoadOrDefault is Load with the documented first-run substitution: a
// missing file yields a fresh default history, any other failure is
// surfaced unchanged.
func (s *FileStore) LoadOrDefault() (*models.History, error) {
	h, err := s.Load()
	if errors.Is(err, ErrNotFound) {
		return models.NewHistory(), nil
	}
	return h, err
}
