package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

// toastIndent is the left margin of the toast box
const toastIndent = "  "

// overlayState holds the one overlay shown over the panes.
type overlayState struct {
	mode    types.OverlayMode
	overlay types.Overlay
}

func newOverlayState() *overlayState {
	return &overlayState{mode: types.OverlayModeNone}
}

func (o *overlayState) activate(mode types.OverlayMode, overlay types.Overlay) {
	o.mode, o.overlay = mode, overlay
}

func (o *overlayState) deactivate() {
	o.mode, o.overlay = types.OverlayModeNone, nil
}

// isActive reports whether an overlay is shown. A mode without an overlay is
// reset to none.
func (o *overlayState) isActive() bool {
	if o.mode != types.OverlayModeNone && o.overlay == nil {
		o.mode = types.OverlayModeNone
	}
	return o.mode != types.OverlayModeNone
}

// renderOverlay centers the overlay on a blank screen, hiding the panes.
func renderOverlay(baseView string, overlay types.Overlay, width, height int) string {
	if overlay == nil {
		return baseView
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay.View(),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// renderToastOverlay replaces the lines just above the status and help bars
// with the toast. The line count of baseView is unchanged.
func renderToastOverlay(baseView string, toastContent string) string {
	if toastContent == "" {
		return baseView
	}

	lines := strings.Split(baseView, "\n")
	toast := strings.Split(strings.TrimRight(toastContent, "\n"), "\n")

	start := max(len(lines)-footerHeight-len(toast), 0)
	for i, line := range toast {
		if start+i >= len(lines) {
			break
		}
		lines[start+i] = toastIndent + line
	}
	return strings.Join(lines, "\n")
}
