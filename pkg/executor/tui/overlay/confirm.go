package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

var (
	confirmButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(types.BrightWhite).
				Background(types.MutedGray)

	confirmActiveButtonStyle = confirmButtonStyle.
					Foreground(lipgloss.Color("#111827")).
					Background(types.MintGreen).
					Bold(true)
)

// ConfirmOverlay asks a yes or no question. Accepting sends a
// types.ConfirmedMsg carrying the action.
type ConfirmOverlay struct {
	*BaseOverlay
	title   string
	message string
	action  string
	yes     bool
}

// NewConfirmOverlay creates a confirmation dialog. The No button starts focused.
func NewConfirmOverlay(title, message, action string) *ConfirmOverlay {
	const overlayWidth = 64

	overlay := &ConfirmOverlay{
		title:   title,
		message: message,
		action:  action,
	}

	baseConfig := BaseOverlayConfig{
		Width:                 overlayWidth,
		Height:                10,
		ViewportWidth:         overlayWidth - 6,
		ViewportHeight:        1,
		RenderHeader:          overlay.renderHeader,
		RenderFooter:          overlay.renderFooter,
		FooterRendersViewport: true,
	}

	overlay.BaseOverlay = NewBaseOverlay(baseConfig)
	return overlay
}

// Update handles messages for the confirm overlay
func (c *ConfirmOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyY:
			return nil, c.confirm()
		case keyN, keyEsc, keyCtrlC, keyQ:
			return nil, nil
		case keyTab, keyLeft, keyRight:
			c.yes = !c.yes
			return c, nil
		case keyEnter:
			if c.yes {
				return nil, c.confirm()
			}
			return nil, nil
		}
	}

	handled, updatedBase, cmd := c.BaseOverlay.Update(msg, actions)
	c.BaseOverlay = updatedBase
	if handled {
		return c, cmd
	}
	return c, nil
}

func (c *ConfirmOverlay) confirm() tea.Cmd {
	action := c.action
	return func() tea.Msg {
		return types.ConfirmedMsg{Action: action}
	}
}

func (c *ConfirmOverlay) renderHeader() string {
	var b strings.Builder
	b.WriteString(types.OverlayTitleStyle.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(c.Width() - 6).Render(c.message))
	return b.String()
}

func (c *ConfirmOverlay) renderFooter() string {
	no, yes := confirmActiveButtonStyle, confirmButtonStyle
	if c.yes {
		no, yes = confirmButtonStyle, confirmActiveButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), "  ", no.Render("No"))
	return "\n\n" + buttons + "\n\n" + types.OverlayHelpStyle.Render("y/n | Tab: Switch | Enter: Choose")
}

// View renders the confirm overlay
func (c *ConfirmOverlay) View() string {
	return c.BaseOverlay.View(c.Width())
}
