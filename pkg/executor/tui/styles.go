package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

// Common Styles
// These are pre-configured styles for common UI elements.
var (
	// Text Styles
	headerStyle = lipgloss.NewStyle().
			Foreground(types.SalmonPink).
			Bold(true)

	envInfoStyle = lipgloss.NewStyle().
			Foreground(types.CoralPink)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(types.SalmonPink).
			Bold(true)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(types.MintGreen)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(types.SalmonPink)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(types.MintGreen)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(types.MutedGray).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(types.SalmonPink)
)
