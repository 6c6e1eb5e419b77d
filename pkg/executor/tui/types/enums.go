package types

// OverlayMode represents the current overlay state
type OverlayMode int

const (
	// OverlayModeNone indicates no overlay is active
	OverlayModeNone OverlayMode = iota
	// OverlayModeOutput shows witadmin output
	OverlayModeOutput
	// OverlayModeHelp shows the key binding help
	OverlayModeHelp
	// OverlayModeConfirm asks before importing into an environment
	OverlayModeConfirm
	// OverlayModePreview shows the highlighted XML of the working file
	OverlayModePreview
)

// Pane identifies the focused column of the main view
type Pane int

const (
	PaneEnvironments Pane = iota
	PaneLists
	PaneItems
)

// String returns the pane title
func (p Pane) String() string {
	switch p {
	case PaneEnvironments:
		return "Environments"
	case PaneLists:
		return "Global Lists"
	case PaneItems:
		return "Items"
	}
	return "Unknown"
}

// Next returns the pane after p, wrapping around
func (p Pane) Next() Pane {
	return (p + 1) % 3
}

// Prev returns the pane before p, wrapping around
func (p Pane) Prev() Pane {
	return (p + 2) % 3
}
