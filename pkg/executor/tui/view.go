package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

const (
	headerHeight = 2
	footerHeight = 3
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	baseView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.buildHeader(),
		m.buildPanes(),
		m.buildStatusBar(),
		m.buildHelpBar(),
	)

	return m.applyOverlays(baseView)
}

// buildHeader renders the title and the selected environment
func (m *model) buildHeader() string {
	state := m.editor.Snapshot()
	title := headerStyle.Render(" Global List Editor")
	env := "no environment selected"
	if state.SelectedEnvironment != "" {
		env = state.SelectedEnvironment
		if state.EnvironmentURL != "" {
			env += "  " + state.EnvironmentURL
		}
	}
	return title + "  " + envInfoStyle.Render(env) + "\n"
}

// buildPanes renders the environment, list and item columns side by side
func (m *model) buildPanes() string {
	panes := make([]string, 0, 3)
	for _, p := range []types.Pane{types.PaneEnvironments, types.PaneLists, types.PaneItems} {
		panes = append(panes, m.renderPane(p))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m *model) renderPane(p types.Pane) string {
	style := paneStyle
	if p == m.focus {
		style = focusedPaneStyle
	}
	width := m.paneWidth(p)

	var b strings.Builder
	if in := m.searchInput(p); in != nil {
		b.WriteString(in.View())
	} else {
		b.WriteString(statusBarStyle.Render(fmt.Sprintf("%d configured", len(m.envList.Items()))))
	}
	b.WriteString("\n")
	b.WriteString(m.paneList(p).View())

	return style.Width(width - 2).Height(m.paneHeight()).Render(b.String())
}

// buildStatusBar renders the loading spinner or the working file location
func (m *model) buildStatusBar() string {
	if m.busy {
		return lipgloss.NewStyle().
			Foreground(types.SalmonPink).
			Padding(0, 1).
			Render(fmt.Sprintf("%s %s", m.spinner.View(), m.loadingMessage))
	}

	state := m.editor.Snapshot()
	location := state.DownloadLocation
	if location == "" {
		location = "-"
	}
	selected := ""
	if n := len(state.SelectedItems); n > 0 {
		selected = fmt.Sprintf("  •  %d item(s) selected", n)
	}
	return statusBarStyle.Width(m.width).Render("File: " + location + selected)
}

func (m *model) buildHelpBar() string {
	m.help.Width = m.width
	return statusBarStyle.Render(m.help.View(m.keys))
}

// layout sizes the panes for the current window.
func (m *model) layout() {
	h := m.paneHeight() - 1
	for _, p := range []types.Pane{types.PaneEnvironments, types.PaneLists, types.PaneItems} {
		w := m.paneWidth(p) - 4
		m.paneList(p).SetSize(w, h)
		if in := m.searchInput(p); in != nil {
			in.Width = max(w-4, 1)
		}
	}
}

// paneWidth gives the environment column a quarter of the width and splits
// the rest between lists and items.
func (m *model) paneWidth(p types.Pane) int {
	envWidth := max(m.width/4, 16)
	rest := max(m.width-envWidth, 20)
	switch p {
	case types.PaneEnvironments:
		return envWidth
	case types.PaneLists:
		return rest / 2
	}
	return rest - rest/2
}

func (m *model) paneHeight() int {
	return max(m.height-headerHeight-footerHeight-2, 3)
}

// applyOverlays layers the active overlay and the toast on top of the base view
func (m *model) applyOverlays(baseView string) string {
	if m.overlay.isActive() {
		baseView = renderOverlay(baseView, m.overlay.overlay, m.width, m.height)
	}

	// Add toast notification as overlay if active and not expired
	if m.toast.active && time.Now().Before(m.toast.showUntil) {
		baseView = renderToastOverlay(baseView, m.renderToast())
	}

	return baseView
}

// renderToast renders a toast notification
func (m *model) renderToast() string {
	if !m.toast.active || time.Now().After(m.toast.showUntil) {
		return ""
	}

	boxWidth := min(max(m.width-4, 40), 100)

	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s %s", m.toast.icon, m.toast.message))
	content.WriteString("\n")
	if m.toast.details != "" {
		content.WriteString(m.toast.details)
	}

	borderColor := types.SalmonPink
	if m.toast.isError {
		borderColor = types.ErrorRed
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(boxWidth)

	return "\n" + boxStyle.Render(content.String()) + "\n"
}

// showToast displays a toast notification to the user
func (m *model) showToast(message, details, icon string, isError bool) {
	m.toast.active = true
	m.toast.message = message
	m.toast.details = details
	m.toast.icon = icon
	m.toast.isError = isError
	m.toast.showUntil = time.Now().Add(toastDuration())
}
