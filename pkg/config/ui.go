package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	defaultAutoCloseOutput = false
	defaultKeepOpenOnError = true
	defaultAutoCloseDelay  = 1 * time.Second
	defaultRefreshDelay    = 1 * time.Second
	defaultToastDuration   = 3 * time.Second
)

// UISection holds terminal UI behaviour.
type UISection struct {
	// AutoCloseOutput closes the witadmin output overlay after a run
	AutoCloseOutput bool `json:"auto_close_output"`

	// KeepOpenOnError keeps the overlay open when witadmin failed
	KeepOpenOnError bool `json:"keep_open_on_error"`

	AutoCloseDelay time.Duration `json:"auto_close_delay"`

	// RefreshDelay is waited before each export after switching environment
	RefreshDelay time.Duration `json:"refresh_delay"`

	ToastDuration time.Duration `json:"toast_duration"`

	mu sync.RWMutex
}

// NewUISection creates a UI section with default settings.
func NewUISection() *UISection {
	s := &UISection{}
	s.reset()
	return s
}

func (s *UISection) ID() string {
	return SectionIDUI
}

func (s *UISection) Title() string {
	return "UI Settings"
}

func (s *UISection) Description() string {
	return "Output overlay auto-close, refresh delay and notification timing."
}

func (s *UISection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"auto_close_output":  s.AutoCloseOutput,
		"keep_open_on_error": s.KeepOpenOnError,
		"auto_close_delay":   s.AutoCloseDelay.String(),
		"refresh_delay":      s.RefreshDelay.String(),
		"toast_duration":     s.ToastDuration.String(),
	}
}

func (s *UISection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "auto_close_output", "keep_open_on_error":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
			}
			if key == "auto_close_output" {
				s.AutoCloseOutput = enabled
			} else {
				s.KeepOpenOnError = enabled
			}

		case "auto_close_delay", "refresh_delay", "toast_duration":
			d, err := parseDuration(key, value)
			if err != nil {
				return err
			}
			switch key {
			case "auto_close_delay":
				s.AutoCloseDelay = d
			case "refresh_delay":
				s.RefreshDelay = d
			default:
				s.ToastDuration = d
			}
		}
	}
	return nil
}

func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.AutoCloseDelay < 100*time.Millisecond || s.AutoCloseDelay > 10*time.Second {
		return fmt.Errorf("auto_close_delay must be between 100ms and 10s, got %v", s.AutoCloseDelay)
	}
	if s.RefreshDelay < 0 || s.RefreshDelay > 10*time.Second {
		return fmt.Errorf("refresh_delay must be between 0 and 10s, got %v", s.RefreshDelay)
	}
	if s.ToastDuration < 500*time.Millisecond || s.ToastDuration > 30*time.Second {
		return fmt.Errorf("toast_duration must be between 500ms and 30s, got %v", s.ToastDuration)
	}
	return nil
}

func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *UISection) reset() {
	s.AutoCloseOutput = defaultAutoCloseOutput
	s.KeepOpenOnError = defaultKeepOpenOnError
	s.AutoCloseDelay = defaultAutoCloseDelay
	s.RefreshDelay = defaultRefreshDelay
	s.ToastDuration = defaultToastDuration
}

// SetAutoClose configures the output overlay.
func (s *UISection) SetAutoClose(enabled, keepOpenOnError bool, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AutoCloseOutput = enabled
	s.KeepOpenOnError = keepOpenOnError
	s.AutoCloseDelay = delay
}

// AutoCloseDelayValue returns the overlay close delay.
func (s *UISection) AutoCloseDelayValue() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AutoCloseDelay
}

// RefreshDelayValue returns the delay before an export.
func (s *UISection) RefreshDelayValue() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RefreshDelay
}

// ToastDurationValue returns how long notifications stay visible.
func (s *UISection) ToastDurationValue() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ToastDuration
}

// ShouldAutoClose reports whether the output overlay for a run with exitCode closes by itself.
func (s *UISection) ShouldAutoClose(exitCode int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.AutoCloseOutput {
		return false
	}
	if exitCode == 0 {
		return true
	}
	return !s.KeepOpenOnError
}
