package sow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when no SOW has the requested id.
var ErrNotFound = errors.New("sow: not found")

// Store defines the persistence interface for SOW records.
type Store interface {
	Create(r *Record) error
	Load(id string) (*Record, error)
	Save(r *Record) error
	List(filter ListFilter) ([]Record, error)
	Delete(id string) error
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Customer string
	Status   Status
}

func (f ListFilter) match(r Record) bool {
	if f.Customer != "" && !strings.EqualFold(f.Customer, r.Customer) {
		return false
	}
	if f.Status != "" && f.Status != r.Status {
		return false
	}
	return true
}

// FileStore implements Store with one JSON file per record.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory records are stored in.
func (s *FileStore) Dir() string { return s.dir }

// RecordPath returns the path of a record's JSON file.
func (s *FileStore) RecordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create persists a new record. If the id is taken, a numeric suffix
// (-2, -3, ...) is appended and r.ID updated.
func (s *FileStore) Create(r *Record) error {
	if !validID(r.ID) {
		return fmt.Errorf("sow: invalid id %q", r.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("sow: creating directory: %w", err)
	}

	originalID := r.ID
	for suffix := 2; ; suffix++ {
		if _, err := os.Stat(s.RecordPath(r.ID)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		r.ID = fmt.Sprintf("%s-%d", originalID, suffix)
	}

	return s.write(r)
}

// Load reads a record by id.
func (s *FileStore) Load(id string) (*Record, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.read(s.RecordPath(id))
}

// Save overwrites an existing record and stamps UpdatedAt.
func (s *FileStore) Save(r *Record) error {
	if !validID(r.ID) {
		return fmt.Errorf("%w: %q", ErrNotFound, r.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.RecordPath(r.ID)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, r.ID)
	}
	r.UpdatedAt = timeNow().UTC().Format(timeLayout)
	return s.write(r)
}

// List returns matching records, newest first. Unreadable files are
// skipped.
func (s *FileStore) List(filter ListFilter) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sow: reading directory: %w", err)
	}

	result := []Record{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		r, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		if filter.match(*r) {
			result = append(result, *r)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a record.
func (s *FileStore) Delete(id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.RecordPath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return fmt.Errorf("sow: deleting %q: %w", id, err)
	}
	return nil
}

func (s *FileStore) read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSuffix(filepath.Base(path), ".json"))
		}
		return nil, fmt.Errorf("sow: reading %s: %w", path, err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("sow: parsing %s: %w", path, err)
	}
	return &r, nil
}

// write marshals the record to a temp file and renames it into place so
// readers never see a partial file.
func (s *FileStore) write(r *Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("sow: marshaling %q: %w", r.ID, err)
	}

	path := s.RecordPath(r.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("sow: writing %q: %w", r.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("sow: writing %q: %w", r.ID, err)
	}
	return nil
}
