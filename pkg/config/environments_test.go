package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAppSettings = `
EnvironmentList: " Dev , Prod,, "
DevUrl: https://tfs.example.com/DevCollection
DevDownloadLocation: /srv/globallists/dev
ProdUrl: https://tfs.example.com/ProdCollection
Port: 8080
`

func TestParseAppSettings(t *testing.T) {
	settings, err := ParseAppSettings([]byte(sampleAppSettings))
	require.NoError(t, err)

	assert.Equal(t, []string{"Dev", "Prod"}, settings.EnvironmentNames())
	assert.Equal(t, "8080", settings["Port"])

	want := []Environment{
		{Name: "Dev", URL: "https://tfs.example.com/DevCollection", DownloadDir: "/srv/globallists/dev"},
		{Name: "Prod", URL: "https://tfs.example.com/ProdCollection"},
	}
	if diff := cmp.Diff(want, settings.Environments()); diff != "" {
		t.Errorf("Environments() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAppSettings_Nested(t *testing.T) {
	settings, err := ParseAppSettings([]byte("appSettings:\n  EnvironmentList: QA\n  QAUrl: https://qa\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"QA"}, settings.EnvironmentNames())
	assert.Equal(t, "https://qa", settings.Environments()[0].URL)
}

func TestParseAppSettings_Errors(t *testing.T) {
	_, err := ParseAppSettings([]byte("EnvironmentList: [a"))
	assert.Error(t, err)

	_, err = ParseAppSettings([]byte("EnvironmentList:\n  - Dev\n"))
	assert.Error(t, err, "lists are not scalar settings")

	_, err = LoadAppSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAppSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleAppSettings), 0644))

	settings, err := LoadAppSettings(path)
	require.NoError(t, err)
	assert.Len(t, settings.Environments(), 2)
}

func TestEnvironmentsSection_MergeAppSettings(t *testing.T) {
	section := NewEnvironmentsSection()
	require.NoError(t, section.SetEnvironments([]Environment{
		{Name: "Prod", URL: "https://old"},
		{Name: "Local", URL: "https://local"},
	}))

	settings, err := ParseAppSettings([]byte(sampleAppSettings))
	require.NoError(t, err)
	require.NoError(t, section.MergeAppSettings(settings))

	assert.Equal(t, []string{"Prod", "Local", "Dev"}, section.Names())
	prod, ok := section.Lookup("Prod")
	require.True(t, ok)
	assert.Equal(t, "https://tfs.example.com/ProdCollection", prod.URL)
	assert.Equal(t, "", prod.GlobalListPath())
}

func TestEnvironmentsSection_DataRoundTrip(t *testing.T) {
	section := NewEnvironmentsSection()
	require.NoError(t, section.SetEnvironments([]Environment{
		{Name: " Dev ", URL: "https://dev", DownloadDir: "/srv/dev"},
	}))

	other := NewEnvironmentsSection()
	require.NoError(t, other.SetData(section.Data()))
	assert.Equal(t, section.All(), other.All())
	assert.Equal(t, "Dev", other.All()[0].Name)
}

func TestEnvironmentsSection_SetDataFromJSON(t *testing.T) {
	section := NewEnvironmentsSection()
	err := section.SetData(map[string]any{
		"environments": []any{
			map[string]any{"name": "Dev", "url": "https://dev", "download_location": "/srv/dev"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dev"}, section.Names())

	assert.Error(t, section.SetData(map[string]any{"environments": "Dev"}))
	assert.Error(t, section.SetData(map[string]any{"environments": []any{"Dev"}}))
	assert.Error(t, section.SetData(map[string]any{"environments": []any{map[string]any{"name": 3.0}}}))
}

func TestEnvironmentsSection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		envs    []Environment
		wantErr bool
	}{
		{"empty is valid", nil, false},
		{"blank name", []Environment{{Name: "  "}}, true},
		{"comma in name", []Environment{{Name: "a,b"}}, true},
		{"duplicate ignoring case", []Environment{{Name: "Dev"}, {Name: "dev"}}, true},
		{"distinct", []Environment{{Name: "Dev"}, {Name: "Prod"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewEnvironmentsSection().SetEnvironments(tt.envs)
			assert.Equal(t, tt.wantErr, err != nil, "error: %v", err)
		})
	}
}

func TestEnvironmentsSection_UpsertIgnoresCase(t *testing.T) {
	section := NewEnvironmentsSection()
	require.NoError(t, section.Upsert(Environment{Name: "Dev", URL: "https://old"}))
	require.NoError(t, section.Upsert(Environment{Name: " dev ", URL: "https://new"}))

	assert.Equal(t, []string{"dev"}, section.Names())
	env, ok := section.Lookup("dev")
	require.True(t, ok)
	assert.Equal(t, "https://new", env.URL)
}

func TestEnvironmentsSection_Reset(t *testing.T) {
	section := NewEnvironmentsSection()
	require.NoError(t, section.Upsert(Environment{Name: "Dev"}))
	section.Reset()
	assert.Empty(t, section.Names())
	_, ok := section.Lookup("Dev")
	assert.False(t, ok)
}

func TestWitadminSection(t *testing.T) {
	s := NewWitadminSection()
	require.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]any{"binary": " /opt/witadmin ", "timeout": "30s"}))
	binary, timeout := s.Settings()
	assert.Equal(t, "/opt/witadmin", binary)
	assert.Equal(t, 30*time.Second, timeout)

	s.SetBinary("   ")
	binary, _ = s.Settings()
	assert.Equal(t, "/opt/witadmin", binary, "blank override is ignored")

	require.NoError(t, s.SetData(map[string]any{"timeout": "10ms"}))
	assert.Error(t, s.Validate())

	assert.Error(t, s.SetData(map[string]any{"binary": 1.0}))

	s.Reset()
	binary, timeout = s.Settings()
	assert.Equal(t, "witadmin", binary)
	assert.Equal(t, 2*time.Minute, timeout)
}
