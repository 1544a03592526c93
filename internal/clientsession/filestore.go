package clientsession

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore persists session start times in a JSON file on the local
// disk, keyed by round ID with Unix-second values. One file holds all
// rounds so stale entries from finished rounds are cheap to keep around
// until Terminate clears them.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore backed by the given file path. The
// parent directory is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]int64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]int64{}
	}
	entries := map[string]int64{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]int64{}
	}
	return entries
}

func (s *FileStore) save(entries map[string]int64) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// LoadStart returns the persisted start time for a round.
func (s *FileStore) LoadStart(roundID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unix, ok := s.load()[roundID]
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

// SaveStart records the start time for a round.
func (s *FileStore) SaveStart(roundID string, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.load()
	entries[roundID] = start.Unix()
	return s.save(entries)
}

// Clear removes the persisted entry for a round.
func (s *FileStore) Clear(roundID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.load()
	if _, ok := entries[roundID]; !ok {
		return nil
	}
	delete(entries, roundID)
	err := s.save(entries)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
