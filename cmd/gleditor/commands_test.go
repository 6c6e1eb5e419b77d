package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/globallist"
	"github.com/surivin/Global-List-Editor/pkg/logging"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<gl:GLOBALLISTS xmlns:gl="http://schemas.microsoft.com/VisualStudio/2005/workitemtracking/globallists">
  <GLOBALLIST name="Teams">
    <LISTITEM value="Alpha" />
    <LISTITEM value="Bravo" />
  </GLOBALLIST>
  <GLOBALLIST name="Areas">
    <LISTITEM value="North" />
  </GLOBALLIST>
</gl:GLOBALLISTS>
`

type fakeClient struct {
	mu        sync.Mutex
	exportErr map[string]error
	exports   []string
	imports   []string
}

func (c *fakeClient) ExportGlobalLists(_ context.Context, url, file string) (witadmin.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.exportErr[url]; err != nil {
		return witadmin.Result{ExitCode: 1}, err
	}
	c.exports = append(c.exports, file)
	return witadmin.Result{}, os.WriteFile(file, []byte(sampleXML), 0644)
}

func (c *fakeClient) ImportGlobalLists(_ context.Context, _, file string) (witadmin.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imports = append(c.imports, file)
	return witadmin.Result{Stdout: "Global lists imported"}, nil
}

type cliFixture struct {
	client   *fakeClient
	dir      string
	config   string
	settings string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	t.Cleanup(config.ResetGlobalManager)

	dir := t.TempDir()
	f := &cliFixture{
		client:   &fakeClient{},
		dir:      dir,
		config:   filepath.Join(dir, "config.json"),
		settings: filepath.Join(dir, "app.yaml"),
	}
	settings := fmt.Sprintf("EnvironmentList: Dev,QA\nDevUrl: https://dev\nDevDownloadLocation: %s\nQAUrl: https://qa\nQADownloadLocation: %s\n",
		filepath.Join(dir, "dev"), filepath.Join(dir, "qa"))
	require.NoError(t, os.WriteFile(f.settings, []byte(settings), 0644))
	return f
}

// newApp returns an app wired to the fake client and a discarding logger.
func (f *cliFixture) newApp() *app {
	a := newApp()
	a.newLogger = func() *logging.Logger { return logging.NewNop("gleditor") }
	a.newClient = func(*logging.Logger) editor.Client { return f.client }
	return a
}

// run executes one command line with the fixture's config and settings.
func (f *cliFixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return f.runApp(t, f.newApp(), stdin, args...)
}

func (f *cliFixture) runApp(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", f.config, "--settings", f.settings}, args...))

	err := execute(context.Background(), a, root)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	f := newCLIFixture(t)
	out, err := f.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "gleditor v"+version+"\n", out)
}

func TestEnvsCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "envs")
	require.NoError(t, err)
	assert.Contains(t, out, "https://dev")
	assert.Contains(t, out, "QA")

	_, err = f.run(t, "", "envs", "add", "Local", "--url", "https://local", "--dir", f.dir)
	require.NoError(t, err)

	// Saved to the config file, so it survives without the settings merge
	config.ResetGlobalManager()
	require.NoError(t, config.Initialize(f.config))
	env, ok := config.GetEnvironments().Lookup("Local")
	require.True(t, ok)
	assert.Equal(t, "https://local", env.URL)
	assert.Equal(t, filepath.Join(f.dir, config.GlobalListFileName), env.GlobalListPath())
}

func TestListsCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "", "lists", "Dev")
	require.Error(t, err, "nothing downloaded yet")
	assert.Contains(t, err.Error(), "--export")

	out, err := f.run(t, "", "lists", "Dev", "--export")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Teams", "Areas"}, strings.Fields(out))

	out, err = f.run(t, "", "lists", "Dev", "--search", "tea")
	require.NoError(t, err)
	assert.Equal(t, "Teams\n", out)
}

func TestListsCommand_UnknownEnvironment(t *testing.T) {
	f := newCLIFixture(t)
	_, err := f.run(t, "", "lists", "Prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown environment "Prod"`)
}

func TestAddAndDeleteCommands(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "add", "Dev", "Teams", " Charlie ", "--export")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Charlie" to Teams`)

	_, err = f.run(t, "", "add", "Dev", "Teams", "charlie")
	assert.ErrorIs(t, err, editor.ErrItemExists)

	out, err = f.run(t, "", "delete", "Dev", "Teams", "alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted alpha from Teams")

	_, err = f.run(t, "", "delete", "Dev", "Teams", "Zulu")
	assert.Error(t, err)

	out, err = f.run(t, "", "items", "Dev", "Teams")
	require.NoError(t, err)
	assert.Equal(t, "Bravo\nCharlie\n", out)

	_, err = f.run(t, "", "items", "Dev", "Missing")
	assert.Error(t, err)

	assert.Empty(t, f.client.imports)
}

func TestAddCommand_Apply(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "n\n", "add", "Dev", "Teams", "Charlie", "--export", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Import skipped")
	assert.Empty(t, f.client.imports)

	out, err = f.run(t, "", "add", "Dev", "Areas", "South", "--apply", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Global lists imported")
	assert.Equal(t, []string{filepath.Join(f.dir, "dev", config.GlobalListFileName)}, f.client.imports)
}

func TestImportCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "yes\n", "import", "QA")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Imported into QA")
	assert.Len(t, f.client.imports, 1)

	out, err = f.run(t, "", "import", "QA")
	require.NoError(t, err, "EOF declines")
	assert.Contains(t, out, "Import skipped")
	assert.Len(t, f.client.imports, 1)

	_, err = f.run(t, "", "import", "Prod", "--yes")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "", "export")
	assert.Error(t, err)

	out, err := f.run(t, "", "export", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Dev")
	assert.Contains(t, out, "✓ QA")
	assert.FileExists(t, filepath.Join(f.dir, "dev", "Dev_GlobalLists.xml"))
	assert.FileExists(t, filepath.Join(f.dir, "qa", "QA_GlobalLists.xml"))
}

func TestExportCommand_PartialFailure(t *testing.T) {
	f := newCLIFixture(t)
	f.client.exportErr = map[string]error{"https://qa": errors.New("TF400324: unreachable")}

	out, err := f.run(t, "", "export", "Dev", "QA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QA: TF400324")
	assert.Contains(t, out, "✓ Dev")
	assert.Contains(t, out, "✗ QA")
	assert.FileExists(t, filepath.Join(f.dir, "dev", "Dev_GlobalLists.xml"))
}

func TestExecute_ClosesLogWhenCommandFails(t *testing.T) {
	f := newCLIFixture(t)
	a := f.newApp()

	_, err := f.runApp(t, a, "", "lists", "Prod")
	require.Error(t, err)
	assert.Nil(t, a.logger, "session log is closed after a failing command")
}

func TestListsCommand_Counts(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "lists", "Dev", "--export", "--counts")
	require.NoError(t, err)
	assert.Equal(t, "Teams\t2\nAreas\t1\n", out)

	out, err = f.run(t, "", "lists", "Dev", "-c", "-s", "a*")
	require.NoError(t, err)
	assert.Equal(t, "Areas\t1\n", out)
}

func TestListsAddAndRemoveCommands(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "lists", "add", "Dev", "Builds", "--export")
	require.NoError(t, err)
	assert.Contains(t, out, "Added global list Builds")

	_, err = f.run(t, "", "lists", "add", "Dev", "Builds")
	assert.ErrorIs(t, err, globallist.ErrListExists)

	out, err = f.run(t, "", "lists", "Dev")
	require.NoError(t, err)
	assert.Equal(t, "Teams\nAreas\nBuilds\n", out)

	out, err = f.run(t, "", "lists", "remove", "Dev", "Teams", "--apply", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed global list Teams")
	assert.Len(t, f.client.imports, 1)

	_, err = f.run(t, "", "lists", "remove", "Dev", "Teams")
	assert.ErrorIs(t, err, globallist.ErrListNotFound)

	out, err = f.run(t, "", "lists", "Dev")
	require.NoError(t, err)
	assert.Equal(t, "Areas\nBuilds\n", out)
}
