package config

import (
	"os"
	"sync"
)

// Environment variables consulted when no flag is given.
const (
	EnvConfigPath = "GLEDITOR_CONFIG"
	EnvWitadmin   = "GLEDITOR_WITADMIN"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// NewDefaultManager creates a manager with the environments, ui and witadmin
// sections registered and loaded from path.
func NewDefaultManager(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewEnvironmentsSection(),
		NewUISection(),
		NewWitadminSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// ResolvePath picks the config file: the flag value, then $GLEDITOR_CONFIG.
// An empty result means the default location.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigPath)
}

// Initialize creates the global manager. It should be called once at startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	manager, err := NewDefaultManager(configPath)
	if err != nil {
		return err
	}

	if w, ok := sectionAs[*WitadminSection](manager, SectionIDWitadmin); ok {
		w.SetBinary(os.Getenv(EnvWitadmin))
	}

	globalManager = manager
	return nil
}

// Global returns the global manager. Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized reports whether Initialize succeeded.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// ResetGlobalManager drops the global manager. Used by tests.
func ResetGlobalManager() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = nil
}

func sectionAs[T Section](m *Manager, id string) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	section, ok := m.GetSection(id)
	if !ok {
		return zero, false
	}
	typed, ok := section.(T)
	return typed, ok
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}
	typed, _ := sectionAs[T](Global(), id)
	return typed
}

// GetUI returns the UI section, or nil before Initialize.
func GetUI() *UISection {
	return globalSection[*UISection](SectionIDUI)
}

// GetEnvironments returns the environments section, or nil before Initialize.
func GetEnvironments() *EnvironmentsSection {
	return globalSection[*EnvironmentsSection](SectionIDEnvironments)
}

// GetWitadmin returns the witadmin section, or nil before Initialize.
func GetWitadmin() *WitadminSection {
	return globalSection[*WitadminSection](SectionIDWitadmin)
}
