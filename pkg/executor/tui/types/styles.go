package types

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the main view and the overlays
var (
	SalmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	CoralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	MintGreen   = lipgloss.Color("#A8E6CF") // success and selection
	MutedGray   = lipgloss.Color("#6B7280") // secondary text
	BrightWhite = lipgloss.Color("#F9FAFB") // primary text
	ErrorRed    = lipgloss.Color("203")
)

var (
	// OverlayTitleStyle is used for main overlay titles
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SalmonPink)

	// OverlaySubtitleStyle is used for overlay subtitles and secondary text
	OverlaySubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedGray)

	// OverlayHelpStyle is used for help text and hints
	OverlayHelpStyle = lipgloss.NewStyle().
				Foreground(MutedGray).
				Italic(true)
)

// CreateOverlayContainerStyle returns the bordered box every overlay is drawn in
func CreateOverlayContainerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SalmonPink).
		Padding(1, 2).
		Width(width)
}
