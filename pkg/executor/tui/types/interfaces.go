package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surivin/Global-List-Editor/pkg/editor"
)

// Overlay is a modal view drawn over the main panes. Returning a nil Overlay
// from Update closes it.
type Overlay interface {
	Update(msg tea.Msg, state StateProvider, actions ActionHandler) (Overlay, tea.Cmd)
	View() string
	Width() int
	Height() int
	SetDimensions(width, height int)
	Focused() bool
	SetFocused(focused bool)
}

// StateProvider gives overlays read access to the session
type StateProvider interface {
	EditorState() editor.State
}

// ActionHandler lets overlays act on the main model
type ActionHandler interface {
	SetOverlay(mode OverlayMode, overlay Overlay)
	ClearOverlay()
	ShowToast(message, details, icon string, isError bool)
	Quit()
}
