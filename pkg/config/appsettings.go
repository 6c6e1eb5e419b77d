package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// App settings keys. Per-environment keys are prefixed with the environment name.
const (
	appKeyEnvironmentList = "EnvironmentList"
	appKeyURLSuffix       = "Url"
	appKeyDownloadSuffix  = "DownloadLocation"
	appKeyNestedSettings  = "appSettings"
)

// AppSettings is a flat key/value settings file, for example:
//
//	EnvironmentList: Dev, Prod
//	DevUrl: https://tfs.example.com/DefaultCollection
//	DevDownloadLocation: /srv/globallists/dev
//
// The same keys may also be nested under an appSettings mapping.
type AppSettings map[string]string

// LoadAppSettings reads a YAML app settings file.
func LoadAppSettings(path string) (AppSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app settings: %w", err)
	}
	return ParseAppSettings(raw)
}

// ParseAppSettings decodes YAML app settings. Scalar values of any type are kept as strings.
func ParseAppSettings(raw []byte) (AppSettings, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse app settings: %w", err)
	}

	if nested, ok := doc[appKeyNestedSettings].(map[string]any); ok {
		doc = nested
	}

	settings := make(AppSettings, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case nil:
			settings[key] = ""
		case map[string]any, []any:
			return nil, fmt.Errorf("app setting %s must be a scalar", key)
		default:
			settings[key] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return settings, nil
}

// EnvironmentNames splits EnvironmentList on commas, trimming blanks away.
func (a AppSettings) EnvironmentNames() []string {
	var names []string
	for _, part := range strings.Split(a[appKeyEnvironmentList], ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Environments resolves each listed environment's URL and download directory.
// Missing keys leave the fields empty.
func (a AppSettings) Environments() []Environment {
	names := a.EnvironmentNames()
	envs := make([]Environment, 0, len(names))
	for _, name := range names {
		envs = append(envs, Environment{
			Name:        name,
			URL:         a[name+appKeyURLSuffix],
			DownloadDir: a[name+appKeyDownloadSuffix],
		})
	}
	return envs
}

// MergeAppSettings upserts every environment from the app settings into the section.
func (s *EnvironmentsSection) MergeAppSettings(a AppSettings) error {
	for _, env := range a.Environments() {
		if err := s.Upsert(env); err != nil {
			return err
		}
	}
	return nil
}
