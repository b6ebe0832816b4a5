package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
)

const defaultCachePath = "cache.json"

// progressDocument is the on-disk shape of the JSON store.
type progressDocument struct {
	Completed []string `json:"completed"`
}

// FileStore keeps the completed set in one JSON file.
//
// Each operation reads the whole file, mutates it in memory and rewrites it. There is no locking and no atomic rename.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = defaultCachePath
	}
	return &FileStore{path: path}
}

// Path returns the location of the JSON document.
func (s *FileStore) Path() string {
	return s.path
}

// Init writes an empty document when none exists yet.
func (s *FileStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", s.path, err)
	}
	return s.save(models.CompletedSet{})
}

// load reads the document. Unreadable or malformed files yield an empty set.
func (s *FileStore) load() models.CompletedSet {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.CompletedSet{}
	}

	var doc progressDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.CompletedSet{}
	}
	return models.CompletedSet(doc.Completed)
}

func (s *FileStore) save(set models.CompletedSet) error {
	data, err := json.Marshal(progressDocument{Completed: set.IDs()})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	return nil
}

func (s *FileStore) Completed() ([]string, error) {
	return s.load().IDs(), nil
}

func (s *FileStore) MarkDone(id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	set := s.load()
	if !set.Add(id) {
		return nil
	}
	return s.save(set)
}

func (s *FileStore) MarkUndone(id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	set := s.load()
	set.Remove(id)
	return s.save(set)
}

func (s *FileStore) Toggle(id string) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	set := s.load()
	done := !set.Contains(id)
	if done {
		set.Add(id)
	} else {
		set.Remove(id)
	}
	return done, s.save(set)
}

func (s *FileStore) Close() error { return nil }
