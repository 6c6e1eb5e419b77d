package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

var helpKeyStyle = lipgloss.NewStyle().
	Foreground(types.MintGreen).
	Bold(true).
	Width(14)

// HelpOverlay lists the key bindings in a modal dialog
type HelpOverlay struct {
	*BaseOverlay
	title string
}

// NewHelpOverlay creates a help overlay showing the given binding groups
func NewHelpOverlay(title string, groups [][]key.Binding) *HelpOverlay {
	const (
		viewportWidth  = 66
		viewportHeight = 18
		overlayWidth   = 70
		overlayHeight  = 24
	)

	overlay := &HelpOverlay{
		title: title,
	}

	baseConfig := BaseOverlayConfig{
		Width:          overlayWidth,
		Height:         overlayHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Content:        renderBindings(groups),
		OnCustomKey: func(msg tea.KeyMsg, actions types.ActionHandler) (bool, tea.Cmd) {
			// Enter and q close as well
			if msg.String() == keyEnter || msg.String() == keyQ {
				overlay.close()
				return true, nil
			}
			return false, nil
		},
		RenderHeader: overlay.renderHeader,
		RenderFooter: overlay.renderFooter,
	}

	overlay.BaseOverlay = NewBaseOverlay(baseConfig)
	return overlay
}

func renderBindings(groups [][]key.Binding) string {
	var b strings.Builder
	for i, group := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			h := binding.Help()
			b.WriteString(helpKeyStyle.Render(h.Key))
			b.WriteString(h.Desc)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Update handles messages for the help overlay
func (h *HelpOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	handled, updatedBase, cmd := h.BaseOverlay.Update(msg, actions)
	h.BaseOverlay = updatedBase

	if h.Closed() {
		return nil, cmd
	}
	if handled {
		return h, cmd
	}
	return h, nil
}

func (h *HelpOverlay) renderHeader() string {
	return types.OverlayTitleStyle.Render(h.title) + "\n"
}

func (h *HelpOverlay) renderFooter() string {
	return "\n" + types.OverlayHelpStyle.Render("Press ESC or Enter to close")
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	return h.BaseOverlay.View(h.BaseOverlay.Viewport().Width)
}
