package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/overlay"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
	"github.com/surivin/Global-List-Editor/pkg/globallist"
)

const actionImport = "import"

// selectEnvironment switches environment and starts the export when needed.
func (m *model) selectEnvironment(name string) tea.Cmd {
	needsRefresh := m.editor.SelectEnvironment(name)
	m.stopWatcher()
	m.syncAll()
	if !needsRefresh {
		m.cancelRefresh()
		state := m.editor.Snapshot()
		if state.SelectedEnvironment != "" && state.EnvironmentURL == "" {
			m.showToast("No collection URL for "+state.SelectedEnvironment, "Configure it in the environments settings", "⚠", true)
		}
		return nil
	}
	return m.startRefresh()
}

// startRefresh runs Editor.Refresh in the background. A refresh still running
// for the previous environment is canceled.
func (m *model) startRefresh() tea.Cmd {
	m.cancelRefresh()
	ctx, cancel := context.WithCancel(m.ctx)
	m.refreshCancel = cancel
	seq := m.nextOpID()
	m.refreshSeq = seq

	env := m.editor.Snapshot().SelectedEnvironment
	m.busy = true
	m.loadingMessage = fmt.Sprintf("Exporting global lists from %s...", env)

	ed := m.editor
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		defer cancel()
		names, err := ed.Refresh(ctx)
		return refreshDoneMsg{seq: seq, env: env, names: names, err: err}
	})
}

// cancelRefresh stops a running refresh. Its result is dropped.
func (m *model) cancelRefresh() {
	if m.refreshCancel != nil {
		m.refreshCancel()
		m.refreshCancel = nil
	}
	m.refreshSeq = 0
	m.busy = false
	m.loadingMessage = ""
}

func (m *model) handleRefreshDone(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.refreshSeq {
		m.logger.Debugf("dropping stale refresh of %s", msg.env)
		return m, nil
	}
	m.refreshCancel = nil
	m.refreshSeq = 0
	m.busy = false
	m.loadingMessage = ""
	if errors.Is(msg.err, editor.ErrSuperseded) || errors.Is(msg.err, context.Canceled) {
		return m, nil
	}
	m.syncAll()

	var cmd tea.Cmd
	switch {
	case isNotConfigured(msg.err):
		m.showToast("Environment not configured", msg.err.Error(), "⚠", true)
	case msg.err != nil && len(msg.names) == 0:
		m.showToast("Could not load global lists for "+msg.env, msg.err.Error(), "✗", true)
	case msg.err != nil:
		m.showToast("Export failed, showing the last downloaded lists", msg.err.Error(), "⚠", true)
	default:
		m.showToast(fmt.Sprintf("Loaded %d global lists", len(msg.names)), msg.env, "✓", false)
	}
	if len(msg.names) > 0 {
		m.focus = types.PaneLists
		cmd = m.startWatcher()
	}
	return m, tea.Batch(cmd, m.toastTimeout())
}

// startDownload exports the entire set of global lists into the download directory.
func (m *model) startDownload() tea.Cmd {
	state := m.editor.Snapshot()
	if !state.CanDownload {
		m.showToast("Cannot download", "Select an environment with a collection URL and download location", "⚠", true)
		return m.toastTimeout()
	}

	opID := m.nextOpID()
	path := editor.DownloadPath(state.DownloadDir, state.SelectedEnvironment)
	ctx, cancel := context.WithCancel(m.ctx)
	m.overlay.activate(types.OverlayModeOutput,
		overlay.NewOutputOverlay(opID, "Download "+state.SelectedEnvironment, path, cancel, m.width))

	ed := m.editor
	return func() tea.Msg {
		defer cancel()
		path, res, err := ed.DownloadAll(ctx)
		return types.WitadminDoneMsg{OpID: opID, Title: "Download", Path: path, Result: res, Err: err}
	}
}

// confirmImport asks before writing the working file into the environment.
func (m *model) confirmImport() tea.Cmd {
	state := m.editor.Snapshot()
	if !state.CanApply {
		m.showToast("Cannot import", "Select an environment with a collection URL and download location", "⚠", true)
		return m.toastTimeout()
	}
	msg := fmt.Sprintf("Import %s into %s (%s)?", state.DownloadLocation, state.SelectedEnvironment, state.EnvironmentURL)
	m.overlay.activate(types.OverlayModeConfirm,
		overlay.NewConfirmOverlay("Apply changes", msg, actionImport))
	return nil
}

// startImport runs witadmin importgloballist for the working file.
func (m *model) startImport() tea.Cmd {
	state := m.editor.Snapshot()
	opID := m.nextOpID()
	ctx, cancel := context.WithCancel(m.ctx)
	m.overlay.activate(types.OverlayModeOutput,
		overlay.NewOutputOverlay(opID, "Import into "+state.SelectedEnvironment, state.DownloadLocation, cancel, m.width))

	ed := m.editor
	return func() tea.Msg {
		defer cancel()
		res, err := ed.ApplyChanges(ctx)
		return types.WitadminDoneMsg{OpID: opID, Title: "Import", Path: state.DownloadLocation, Result: res, Err: err}
	}
}

// openPreview shows the selected list, or the whole working file, as XML.
func (m *model) openPreview() tea.Cmd {
	xml, err := m.editor.PreviewXML()
	if err != nil {
		m.showToast("Nothing to preview", err.Error(), "⚠", true)
		return m.toastTimeout()
	}
	title := "GlobalList.xml"
	if name := m.editor.Snapshot().SelectedList; name != "" {
		title = name
	}
	m.overlay.activate(types.OverlayModePreview, overlay.NewPreviewOverlay(title, xml, m.width, m.height))
	return nil
}

func (m *model) openHelp() {
	m.overlay.activate(types.OverlayModeHelp, overlay.NewHelpOverlay("Global List Editor", m.keys.FullHelp()))
}

// addItem adds the item search text to the selected list.
func (m *model) addItem() tea.Cmd {
	value, err := m.editor.AddItem()
	if err != nil {
		m.showToast("Cannot add item", err.Error(), "✗", true)
		return m.toastTimeout()
	}
	m.itemSearch.SetValue("")
	m.syncAll()
	m.showToast("Added "+value, "Saved to "+m.editor.Snapshot().DownloadLocation, "✓", false)
	return m.toastTimeout()
}

// deleteItems deletes the matching or selected items of the selected list.
func (m *model) deleteItems() tea.Cmd {
	values, err := m.editor.DeleteItems()
	if err != nil {
		m.showToast("Cannot delete", err.Error(), "✗", true)
		return m.toastTimeout()
	}
	m.itemSearch.SetValue("")
	m.syncAll()
	m.showToast(fmt.Sprintf("Deleted %d item(s)", len(values)), joinShort(values, 5), "✓", false)
	return m.toastTimeout()
}

// copyText puts text on the clipboard.
func (m *model) copyText(text, label string) tea.Cmd {
	if err := clipboardWriteAll(text); err != nil {
		m.showToast("Copy failed", err.Error(), "✗", true)
	} else {
		m.showToast("Copied "+label, joinShort([]string{text}, 1), "📋", false)
	}
	return m.toastTimeout()
}

// startWatcher watches the working file so outside edits show up.
func (m *model) startWatcher() tea.Cmd {
	location := m.editor.Snapshot().DownloadLocation
	if location == "" {
		return nil
	}
	if m.watcher != nil && m.watcher.Path() == location {
		return nil
	}
	m.stopWatcher()

	w, err := globallist.NewWatcher(location, 0, m.logger)
	if err != nil {
		m.logger.Warnf("failed to create watcher for %s: %v", location, err)
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	if err := w.Start(ctx); err != nil {
		cancel()
		w.Stop()
		m.logger.Warnf("failed to watch %s: %v", location, err)
		return nil
	}
	m.watcher, m.watchCancel = w, cancel
	return waitForChange(w)
}

func (m *model) stopWatcher() {
	if m.watcher == nil {
		return
	}
	m.watchCancel()
	m.watcher.Stop()
	m.watcher, m.watchCancel = nil, nil
}

// waitForChange blocks until w reports a change or stops.
func waitForChange(w *globallist.Watcher) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return fileChangedMsg{watcher: w, change: change}
	}
}

func (m *model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	if msg.watcher != m.watcher {
		return m, nil
	}
	next := waitForChange(msg.watcher)
	if msg.change.Removed {
		m.logger.Warnf("%s was removed", msg.change.Path)
		return m, next
	}
	if err := m.editor.Reload(); err != nil {
		m.logger.Warnf("reload after change failed: %v", err)
		return m, next
	}
	m.syncAll()
	return m, next
}

// toastTimeout clears the toast after it has been shown long enough.
func (m *model) toastTimeout() tea.Cmd {
	until := m.toast.showUntil
	return tea.Tick(time.Until(until), func(time.Time) tea.Msg {
		return toastExpiredMsg{until: until}
	})
}

func joinShort(values []string, n int) string {
	const maxLen = 60
	var out string
	for i, v := range values {
		if i == n {
			out += fmt.Sprintf(", and %d more", len(values)-n)
			break
		}
		if i > 0 {
			out += ", "
		}
		out += v
	}
	if len([]rune(out)) > maxLen {
		out = string([]rune(out)[:maxLen-1]) + "…"
	}
	return out
}
