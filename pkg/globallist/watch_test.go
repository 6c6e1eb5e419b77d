package globallist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitForChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes():
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	return Change{}
}

func TestWatcher_ReportsSave(t *testing.T) {
	path := writeSample(t)

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.AddItem("Teams", "Charlie"))
	require.NoError(t, doc.Save())

	c := waitForChange(t, w)
	require.Equal(t, path, c.Path)
	require.False(t, c.Removed)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeSample(t)

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	other := filepath.Join(filepath.Dir(path), "other.xml")
	require.NoError(t, os.WriteFile(other, []byte("<x/>"), 0644))

	select {
	case c := <-w.Changes():
		t.Fatalf("unexpected change for %s", c.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	path := writeSample(t)

	w, err := NewWatcher(path, 100*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0644))
	}

	waitForChange(t, w)

	select {
	case <-w.Changes():
		t.Fatal("expected burst to be coalesced into one notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	path := writeSample(t)

	w, err := NewWatcher(path, 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	// Second start is a no-op
	require.NoError(t, w.Start(ctx))
	cancel()

	// Stop must still return after the loop exited on its own
	w.Stop()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "GlobalList.xml"), 0, nil)
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	path := writeSample(t)

	w, err := NewWatcher(path, 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()

	_, ok := <-w.Changes()
	require.False(t, ok)
}
