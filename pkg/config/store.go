package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDirName  = ".gleditor"
	configFileName = "config.json"
	storeVersion   = "1"
)

// Store persists section data.
type Store interface {
	Load() error
	Save() error

	// GetSection returns a copy of a section's data, or an empty map.
	GetSection(sectionID string) (map[string]any, error)
	SetSection(sectionID string, data map[string]any) error

	GetAll() (map[string]map[string]any, error)
	SetAll(data map[string]map[string]any) error
}

// storeFile is the on-disk layout
type storeFile struct {
	Version  string                    `json:"version"`
	Sections map[string]map[string]any `json:"sections"`
}

// FileStore keeps all sections in one JSON file.
type FileStore struct {
	path     string
	data     map[string]map[string]any
	version  string
	modified bool
	mu       sync.RWMutex
}

// DefaultPath returns ~/.gleditor/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// NewFileStore opens the store at path, or at DefaultPath when path is empty.
// A missing file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &FileStore{
		path:    path,
		data:    make(map[string]map[string]any),
		version: storeVersion,
	}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return s, nil
}

// Load replaces the in-memory data with the file contents.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = make(map[string]map[string]any)
		s.modified = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var f storeFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	if f.Version != "" {
		s.version = f.Version
	}
	s.data = f.Sections
	if s.data == nil {
		s.data = make(map[string]map[string]any)
	}
	s.modified = false
	return nil
}

// Save writes the file through a temp file and rename.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw, err := json.MarshalIndent(storeFile{Version: s.version, Sections: s.data}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(raw, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	s.modified = false
	return nil
}

func (s *FileStore) GetSection(sectionID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySection(s.data[sectionID]), nil
}

func (s *FileStore) SetSection(sectionID string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sectionID] = copySection(data)
	s.modified = true
	return nil
}

func (s *FileStore) GetAll() (map[string]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySections(s.data), nil
}

func (s *FileStore) SetAll(data map[string]map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = copySections(data)
	s.modified = true
	return nil
}

// IsModified reports unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func copySection(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func copySections(data map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(data))
	for id, section := range data {
		out[id] = copySection(section)
	}
	return out
}
