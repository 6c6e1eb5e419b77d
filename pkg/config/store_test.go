package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, sections map[string]map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	raw, err := json.Marshal(map[string]any{"version": "1", "sections": sections})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path
}

func TestNewFileStore(t *testing.T) {
	t.Run("missing file is an empty store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")

		store, err := NewFileStore(path)
		require.NoError(t, err)
		assert.Equal(t, path, store.Path())
		assert.False(t, store.IsModified())

		all, err := store.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("default path under home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)

		store, err := NewFileStore("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".gleditor", "config.json"), store.Path())
	})

	t.Run("loads existing file", func(t *testing.T) {
		path := writeConfigFile(t, map[string]map[string]any{
			"witadmin": {"binary": "/opt/witadmin"},
		})

		store, err := NewFileStore(path)
		require.NoError(t, err)

		section, err := store.GetSection("witadmin")
		require.NoError(t, err)
		assert.Equal(t, "/opt/witadmin", section["binary"])
	})

	t.Run("invalid json fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0644))

		_, err := NewFileStore(path)
		assert.Error(t, err)
	})
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("ui", map[string]any{"refresh_delay": "1s"}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	section, err := reopened.GetSection("ui")
	require.NoError(t, err)
	assert.Equal(t, "1s", section["refresh_delay"])
}

func TestFileStore_CopiesSections(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	data := map[string]any{"key": "value"}
	require.NoError(t, store.SetSection("s", data))
	data["key"] = "changed"

	got, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "value", got["key"])

	got["key"] = "mutated"
	again, _ := store.GetSection("s")
	assert.Equal(t, "value", again["key"])
}

func TestFileStore_GetSectionMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	got, err := store.GetSection("nope")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileStore_SetAll(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	in := map[string]map[string]any{
		"a": {"k": 1.0},
		"b": {"k": 2.0},
	}
	require.NoError(t, store.SetAll(in))
	in["a"]["k"] = 9.0

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]any{"a": {"k": 1.0}, "b": {"k": 2.0}}, all)
}
