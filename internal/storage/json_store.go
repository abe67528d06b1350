package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps every record in a single JSON object on disk.
type JSONStore struct {
	path    string
	mu      sync.Mutex
	records map[string]string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}
	s.records = make(map[string]string)
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONStore) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("session file not found at %s", s.path)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	records := make(map[string]string)
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.records = records
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes through a temp file so a crash never leaves half a record.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetRecord(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	value, ok := s.records[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *JSONStore) PutRecord(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.records[key] = value
	return s.save()
}

func (s *JSONStore) DeleteRecord(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
