package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/overlay"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

// Init selects the startup environment, if any.
func (m *model) Init() tea.Cmd {
	if m.initialEnv == "" {
		return nil
	}
	name := m.initialEnv
	return func() tea.Msg { return selectEnvMsg{name: name} }
}

// Update handles all state updates for the TUI model.
//
// Uses pointer receiver to ensure overlay mutations via ActionHandler persist.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Check if quit was requested by an overlay
	if m.shouldQuit {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		if m.overlay.isActive() {
			return m.updateOverlay(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case selectEnvMsg:
		return m, m.selectEnvironment(msg.name)

	case refreshDoneMsg:
		return m.handleRefreshDone(msg)

	case fileChangedMsg:
		return m.handleFileChanged(msg)

	case toastExpiredMsg:
		if m.toast.showUntil.Equal(msg.until) {
			m.toast.active = false
		}
		return m, nil

	case types.ToastMsg:
		m.showToast(msg.Message, msg.Details, msg.Icon, msg.IsError)
		return m, m.toastTimeout()

	case types.CopyMsg:
		return m, m.copyText(msg.Text, msg.Label)

	case types.ConfirmedMsg:
		if msg.Action == actionImport {
			return m, m.startImport()
		}
		return m, nil

	case types.WitadminDoneMsg:
		return m.handleWitadminDone(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Anything else (auto-close ticks, cursor blinks) goes to the overlay or the focused input
	if m.overlay.isActive() {
		return m.updateOverlay(msg)
	}
	if m.searching {
		if in := m.searchInput(m.focus); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// updateOverlay passes msg to the active overlay. A nil overlay means it closed.
func (m *model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.overlay.overlay.Update(msg, m, m)
	if updated == nil {
		m.ClearOverlay()
	} else {
		m.overlay.overlay = updated
	}
	if m.shouldQuit {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *model) handleWitadminDone(msg types.WitadminDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warnf("%s failed: %v", msg.Title, msg.Err)
	}

	if out, ok := m.overlay.overlay.(*overlay.OutputOverlay); ok && m.overlay.isActive() && out.OpID() == msg.OpID {
		return m.updateOverlay(msg)
	}

	// The overlay is gone, report the outcome on its own
	if msg.Err != nil {
		m.showToast(msg.Title+" failed", msg.Err.Error(), "✗", true)
	} else {
		m.showToast(msg.Title+" completed", msg.Path, "✓", false)
	}
	return m, m.toastTimeout()
}

// handleKeyPress processes keyboard input
func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay.isActive() {
		return m.updateOverlay(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.focus = m.focus.Next()
		return m, nil

	case key.Matches(msg, m.keys.PrevPane):
		m.focus = m.focus.Prev()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		in := m.searchInput(m.focus)
		if in == nil {
			return m, nil
		}
		m.searching = true
		return m, in.Focus()

	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleHighlighted()

	case key.Matches(msg, m.keys.Open):
		return m, m.openHighlighted()

	case key.Matches(msg, m.keys.Add):
		return m, m.addItem()

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteItems()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Download):
		return m, m.startDownload()

	case key.Matches(msg, m.keys.Import):
		return m, m.confirmImport()

	case key.Matches(msg, m.keys.Preview):
		return m, m.openPreview()

	case key.Matches(msg, m.keys.Copy):
		if name, ok := m.highlighted(); ok {
			return m, m.copyText(name, fmt.Sprintf("%q", name))
		}
		return m, nil

	case msg.Type == tea.KeyEsc:
		m.clearSearch(m.focus)
		return m, nil
	}

	var cmd tea.Cmd
	l := m.paneList(m.focus)
	*l, cmd = l.Update(msg)
	return m, cmd
}

// handleSearchKey edits the search text of the focused pane
func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.searchInput(m.focus)
	if in == nil {
		m.searching = false
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter, tea.KeyTab:
		m.searching = false
		in.Blur()
		if msg.Type == tea.KeyTab {
			m.focus = m.focus.Next()
		}
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		l := m.paneList(m.focus)
		*l, cmd = l.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	m.applySearch(m.focus)
	return m, cmd
}

// applySearch pushes the search text of p into the editor
func (m *model) applySearch(p types.Pane) {
	switch p {
	case types.PaneLists:
		m.editor.SetListSearch(m.listSearch.Value())
	case types.PaneItems:
		m.editor.SetItemSearch(m.itemSearch.Value())
	}
	m.syncAll()
}

func (m *model) clearSearch(p types.Pane) {
	in := m.searchInput(p)
	if in == nil || in.Value() == "" {
		return
	}
	in.SetValue("")
	m.applySearch(p)
}

// toggleHighlighted flips the selection of the row under the cursor
func (m *model) toggleHighlighted() tea.Cmd {
	name, ok := m.highlighted()
	if !ok {
		return nil
	}

	var err error
	switch m.focus {
	case types.PaneEnvironments:
		return m.selectEnvironment(name)
	case types.PaneLists:
		err = m.editor.ToggleList(name)
	case types.PaneItems:
		err = m.editor.ToggleItem(name)
	}
	if err != nil {
		m.showToast("Selection failed", err.Error(), "✗", true)
		return m.toastTimeout()
	}
	m.syncAll()
	return nil
}

// openHighlighted selects the environment or the single list under the cursor
func (m *model) openHighlighted() tea.Cmd {
	name, ok := m.highlighted()
	if !ok {
		return nil
	}

	switch m.focus {
	case types.PaneEnvironments:
		return m.selectEnvironment(name)
	case types.PaneLists:
		if err := m.editor.SelectList(name); err != nil {
			m.showToast("Cannot open list", err.Error(), "✗", true)
			return m.toastTimeout()
		}
		m.syncAll()
		m.itemList.ResetSelected()
		m.focus = types.PaneItems
		return nil
	}
	return m.toggleHighlighted()
}

// refresh exports the current environment again
func (m *model) refresh() tea.Cmd {
	state := m.editor.Snapshot()
	switch {
	case m.busy:
		return nil
	case state.SelectedEnvironment == "":
		m.showToast("Cannot refresh", editor.ErrNoEnvironment.Error(), "⚠", true)
		return m.toastTimeout()
	case state.EnvironmentURL == "":
		m.showToast("Cannot refresh", fmt.Sprintf("%s has no collection URL", state.SelectedEnvironment), "⚠", true)
		return m.toastTimeout()
	}
	return m.startRefresh()
}

// isNotConfigured reports errors that ask the user to fix the environment settings
func isNotConfigured(err error) bool {
	return errors.Is(err, editor.ErrNotConfigured) || errors.Is(err, editor.ErrNoEnvironment)
}
