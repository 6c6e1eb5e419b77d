package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// SectionIDEnvironments is the identifier for the environments section
const SectionIDEnvironments = "environments"

// GlobalListFileName is the file witadmin exports into inside an environment's download directory.
const GlobalListFileName = "GlobalList.xml"

// Environment is one team project collection the editor can work against.
type Environment struct {
	Name string `json:"name" yaml:"name"`

	// URL is the collection URL passed to witadmin
	URL string `json:"url" yaml:"url"`

	// DownloadDir is the local directory holding the exported XML
	DownloadDir string `json:"download_location" yaml:"download_location"`
}

// GlobalListPath returns the working XML file, or "" when no directory is set.
func (e Environment) GlobalListPath() string {
	if strings.TrimSpace(e.DownloadDir) == "" {
		return ""
	}
	return filepath.Join(e.DownloadDir, GlobalListFileName)
}

// EnvironmentsSection lists the configured environments in display order.
type EnvironmentsSection struct {
	envs []Environment
	mu   sync.RWMutex
}

// NewEnvironmentsSection creates an empty section.
func NewEnvironmentsSection() *EnvironmentsSection {
	return &EnvironmentsSection{}
}

func (s *EnvironmentsSection) ID() string {
	return SectionIDEnvironments
}

func (s *EnvironmentsSection) Title() string {
	return "Environments"
}

func (s *EnvironmentsSection) Description() string {
	return "Collections whose global lists can be edited, with their witadmin URL and local download directory."
}

func (s *EnvironmentsSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]any, 0, len(s.envs))
	for _, e := range s.envs {
		list = append(list, map[string]any{
			"name":              e.Name,
			"url":               e.URL,
			"download_location": e.DownloadDir,
		})
	}
	return map[string]any{"environments": list}
}

func (s *EnvironmentsSection) SetData(data map[string]any) error {
	raw, ok := data["environments"]
	if !ok {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("invalid value type for environments: expected list, got %T", raw)
	}

	envs := make([]Environment, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid environment at index %d: expected object, got %T", i, item)
		}
		var e Environment
		for key, field := range map[string]*string{
			"name":              &e.Name,
			"url":               &e.URL,
			"download_location": &e.DownloadDir,
		} {
			if v, present := m[key]; present {
				str, ok := v.(string)
				if !ok {
					return fmt.Errorf("invalid value type for environments[%d].%s: expected string, got %T", i, key, v)
				}
				*field = strings.TrimSpace(str)
			}
		}
		envs = append(envs, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = envs
	return nil
}

func (s *EnvironmentsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateEnvironments(s.envs)
}

func (s *EnvironmentsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = nil
}

func validateEnvironments(envs []Environment) error {
	seen := make(map[string]bool, len(envs))
	for i, e := range envs {
		if e.Name == "" {
			return fmt.Errorf("environment %d has no name", i)
		}
		if strings.Contains(e.Name, ",") {
			return fmt.Errorf("environment name %q must not contain a comma", e.Name)
		}
		key := strings.ToLower(e.Name)
		if seen[key] {
			return fmt.Errorf("environment %q is listed twice", e.Name)
		}
		seen[key] = true
	}
	return nil
}

// Names returns the environment names in order.
func (s *EnvironmentsSection) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.envs))
	for _, e := range s.envs {
		names = append(names, e.Name)
	}
	return names
}

// Lookup finds an environment by exact name.
func (s *EnvironmentsSection) Lookup(name string) (Environment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.envs {
		if e.Name == name {
			return e, true
		}
	}
	return Environment{}, false
}

// All returns a copy of the configured environments.
func (s *EnvironmentsSection) All() []Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Environment(nil), s.envs...)
}

// SetEnvironments replaces the list after validating it.
func (s *EnvironmentsSection) SetEnvironments(envs []Environment) error {
	cleaned := make([]Environment, len(envs))
	for i, e := range envs {
		cleaned[i] = Environment{
			Name:        strings.TrimSpace(e.Name),
			URL:         strings.TrimSpace(e.URL),
			DownloadDir: strings.TrimSpace(e.DownloadDir),
		}
	}
	if err := validateEnvironments(cleaned); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = cleaned
	return nil
}

// Upsert replaces the environment with the same name, ignoring case, or
// appends a new one.
func (s *EnvironmentsSection) Upsert(env Environment) error {
	envs := s.All()
	for i := range envs {
		if strings.EqualFold(envs[i].Name, strings.TrimSpace(env.Name)) {
			envs[i] = env
			return s.SetEnvironments(envs)
		}
	}
	return s.SetEnvironments(append(envs, env))
}
