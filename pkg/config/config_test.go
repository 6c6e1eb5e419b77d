package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(ResetGlobalManager)
	t.Setenv(EnvWitadmin, "")

	ResetGlobalManager()
	assert.False(t, IsInitialized())
	assert.Nil(t, GetUI())
	assert.Nil(t, GetEnvironments())
	assert.Nil(t, GetWitadmin())

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "config.json")))
	assert.True(t, IsInitialized())

	var ids []string
	for _, s := range Global().GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{SectionIDEnvironments, SectionIDUI, SectionIDWitadmin}, ids)

	require.NotNil(t, GetUI())
	require.NotNil(t, GetEnvironments())
	require.NotNil(t, GetWitadmin())

	binary, timeout := GetWitadmin().Settings()
	assert.Equal(t, "witadmin", binary)
	assert.Equal(t, 2*time.Minute, timeout)
}

func TestInitialize_WitadminFromEnv(t *testing.T) {
	t.Cleanup(ResetGlobalManager)
	t.Setenv(EnvWitadmin, "/opt/tfs/witadmin")

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "config.json")))
	binary, _ := GetWitadmin().Settings()
	assert.Equal(t, "/opt/tfs/witadmin", binary)
}

func TestGlobal_PanicsBeforeInitialize(t *testing.T) {
	t.Cleanup(ResetGlobalManager)
	ResetGlobalManager()

	assert.Panics(t, func() { Global() })
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.json")
	assert.Equal(t, "/from/flag.json", ResolvePath("/from/flag.json"))
	assert.Equal(t, "/from/env.json", ResolvePath(""))

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "", ResolvePath(""))
}

func TestGlobalConfig_Persistence(t *testing.T) {
	t.Cleanup(ResetGlobalManager)
	t.Setenv(EnvWitadmin, "")
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, Initialize(path))
	require.NoError(t, GetEnvironments().SetEnvironments([]Environment{
		{Name: "Dev", URL: "https://tfs/dev", DownloadDir: "/srv/dev"},
	}))
	GetUI().SetAutoClose(true, false, 2*time.Second)
	require.NoError(t, Global().SaveAll())

	_, err := os.Stat(path)
	require.NoError(t, err)

	ResetGlobalManager()
	require.NoError(t, Initialize(path))

	env, ok := GetEnvironments().Lookup("Dev")
	require.True(t, ok)
	assert.Equal(t, "https://tfs/dev", env.URL)
	assert.Equal(t, filepath.Join("/srv/dev", "GlobalList.xml"), env.GlobalListPath())
	assert.True(t, GetUI().ShouldAutoClose(1))
}
