package globallist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<gl:GLOBALLISTS xmlns:gl="http://schemas.microsoft.com/VisualStudio/2005/workitemtracking/globallists">
  <GLOBALLIST name="Teams">
    <LISTITEM value="Alpha" />
    <LISTITEM value="Bravo" />
  </GLOBALLIST>
  <GLOBALLIST name="Builds - Main">
    <LISTITEM value="1.0.0" />
  </GLOBALLIST>
  <GLOBALLIST name="O'Brien's list" />
</gl:GLOBALLISTS>
`

// writeSample writes sampleXML into a temp dir and returns its path
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "GlobalList.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads list names in document order", func(t *testing.T) {
		doc, err := Load(writeSample(t))
		require.NoError(t, err)

		want := []string{"Teams", "Builds - Main", "O'Brien's list"}
		if diff := cmp.Diff(want, doc.ListNames()); diff != "" {
			t.Errorf("ListNames() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file wraps fs.ErrNotExist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.xml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("malformed xml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(path, []byte("<GLOBALLISTS><GLOBALLIST"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unnamed list yields empty name", func(t *testing.T) {
		doc, err := Parse(strings.NewReader(`<GLOBALLISTS><GLOBALLIST/></GLOBALLISTS>`))
		require.NoError(t, err)
		assert.Equal(t, []string{""}, doc.ListNames())
	})
}

func TestDocument_Items(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	items, err := doc.Items("Teams")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, items)

	items, err = doc.Items("O'Brien's list")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Lookup is exact, not case-insensitive
	_, err = doc.Items("teams")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestDocument_Lists(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	lists := doc.Lists()
	require.Len(t, lists.Lists, 3)
	assert.Equal(t, []string{"Teams", "Builds - Main", "O'Brien's list"}, lists.Names())

	teams, ok := lists.Find("Teams")
	require.True(t, ok)
	assert.Equal(t, []string{"Alpha", "Bravo"}, teams.Values())

	_, ok = lists.Find("Missing")
	assert.False(t, ok)
}

func TestDocument_AddItem(t *testing.T) {
	path := writeSample(t)

	err := Update(path, func(d *Document) error {
		return d.AddItem("O'Brien's list", "Charlie")
	})
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)

	items, err := reloaded.Items("O'Brien's list")
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie"}, items)

	// Other lists are untouched
	items, err = reloaded.Items("Teams")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, items)

	t.Run("unknown list", func(t *testing.T) {
		err := reloaded.AddItem("Nope", "x")
		assert.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("blank value", func(t *testing.T) {
		err := reloaded.AddItem("Teams", "  ")
		assert.ErrorIs(t, err, ErrEmptyValue)
	})
}

func TestDocument_RemoveItem(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	removed, err := doc.RemoveItem("Teams", "alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, err := doc.Items("Teams")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo"}, items)

	removed, err = doc.RemoveItem("Teams", "Zulu")
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = doc.RemoveItem("Nope", "Bravo")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestDocument_AddRemoveList(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	require.NoError(t, doc.AddList("Priorities"))
	assert.ErrorIs(t, doc.AddList("Priorities"), ErrListExists)
	assert.ErrorIs(t, doc.AddList(" "), ErrEmptyValue)
	assert.Contains(t, doc.ListNames(), "Priorities")

	require.NoError(t, doc.RemoveList("Teams"))
	assert.NotContains(t, doc.ListNames(), "Teams")
	assert.ErrorIs(t, doc.RemoveList("Teams"), ErrListNotFound)
}

func TestDocument_SaveRoundTrip(t *testing.T) {
	path := writeSample(t)
	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, doc.AddItem("Teams", "Charlie"))
	require.NoError(t, doc.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	// Namespace prefix and declaration survive the rewrite
	assert.Contains(t, text, `<gl:GLOBALLISTS xmlns:gl="`+Namespace+`">`)
	assert.Contains(t, text, `<LISTITEM value="Charlie"/>`)

	// No temp file is left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "GlobalList.xml")
	doc := New(path)
	require.NoError(t, doc.AddList("Teams"))
	require.NoError(t, doc.AddItem("Teams", "Alpha"))
	require.NoError(t, doc.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	items, err := reloaded.Items("Teams")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, items)
}

func TestDocument_SaveWithoutPath(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)
	assert.Error(t, doc.Save())

	path := filepath.Join(t.TempDir(), "out.xml")
	require.NoError(t, doc.SaveAs(path))
	assert.Equal(t, path, doc.Path())
}

func TestDocument_ListXML(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	out, err := doc.ListXML("Builds - Main")
	require.NoError(t, err)
	assert.Contains(t, out, `<GLOBALLIST name="Builds - Main">`)
	assert.Contains(t, out, `<LISTITEM value="1.0.0"/>`)
	assert.NotContains(t, out, "Teams")

	_, err = doc.ListXML("Nope")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestUpdate_DoesNotSaveOnError(t *testing.T) {
	path := writeSample(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Update(path, func(d *Document) error {
		_ = d.AddItem("Teams", "Charlie")
		return errors.New("abort")
	})
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
