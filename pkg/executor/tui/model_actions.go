package tui

import (
	"time"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

const defaultToastDuration = 3 * time.Second

// EditorState implements types.StateProvider
func (m *model) EditorState() editor.State {
	return m.editor.Snapshot()
}

// SetOverlay activates an overlay
func (m *model) SetOverlay(mode types.OverlayMode, overlay types.Overlay) {
	m.overlay.activate(mode, overlay)
}

// ClearOverlay closes the current overlay
func (m *model) ClearOverlay() {
	m.overlay.deactivate()
}

// ShowToast displays a toast notification
func (m *model) ShowToast(message, details, icon string, isError bool) {
	m.showToast(message, details, icon, isError)
}

// Quit triggers application exit by setting a flag that will be checked in the Update loop.
// This allows overlays to request termination without returning tea.Quit themselves.
func (m *model) Quit() {
	m.shouldQuit = true
}

// toastDuration comes from the ui settings when they are loaded
func toastDuration() time.Duration {
	if ui := config.GetUI(); ui != nil {
		return ui.ToastDurationValue()
	}
	return defaultToastDuration
}
