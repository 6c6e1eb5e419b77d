package config

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// SectionIDWitadmin is the identifier for the witadmin section
	SectionIDWitadmin = "witadmin"

	defaultWitadminBinary  = "witadmin"
	defaultWitadminTimeout = 2 * time.Minute
)

// WitadminSection configures how the witadmin tool is invoked.
type WitadminSection struct {
	Binary  string        `json:"binary"`
	Timeout time.Duration `json:"timeout"`
	mu      sync.RWMutex
}

// NewWitadminSection creates a section with default settings.
func NewWitadminSection() *WitadminSection {
	return &WitadminSection{
		Binary:  defaultWitadminBinary,
		Timeout: defaultWitadminTimeout,
	}
}

func (s *WitadminSection) ID() string {
	return SectionIDWitadmin
}

func (s *WitadminSection) Title() string {
	return "witadmin"
}

func (s *WitadminSection) Description() string {
	return "Path of the witadmin executable and the time limit for each export or import."
}

func (s *WitadminSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"binary":  s.Binary,
		"timeout": s.Timeout.String(),
	}
}

func (s *WitadminSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "binary":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for binary: expected string, got %T", value)
			}
			s.Binary = strings.TrimSpace(v)
		case "timeout":
			d, err := parseDuration("timeout", value)
			if err != nil {
				return err
			}
			s.Timeout = d
		}
	}
	return nil
}

func (s *WitadminSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Binary == "" {
		return fmt.Errorf("binary must not be empty")
	}
	if s.Timeout < time.Second || s.Timeout > time.Hour {
		return fmt.Errorf("timeout must be between 1s and 1h, got %v", s.Timeout)
	}
	return nil
}

func (s *WitadminSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Binary = defaultWitadminBinary
	s.Timeout = defaultWitadminTimeout
}

// Settings returns the binary and timeout.
func (s *WitadminSection) Settings() (string, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Binary, s.Timeout
}

// SetBinary overrides the executable path. Blank values are ignored.
func (s *WitadminSection) SetBinary(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Binary = path
}

// parseDuration accepts duration strings and JSON numbers in nanoseconds
func parseDuration(key string, value any) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		return d, nil
	case float64:
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	case int:
		return time.Duration(v), nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
}
