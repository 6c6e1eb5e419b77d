package overlay

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

// Key names shared by the overlays
const (
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyTab   = "tab"
	keyLeft  = "left"
	keyRight = "right"
	keyQ     = "q"
	keyY     = "y"
	keyN     = "n"
)

// BaseOverlayConfig configures a base overlay.
type BaseOverlayConfig struct {
	Width          int
	Height         int
	ViewportWidth  int
	ViewportHeight int
	Content        string

	// OnCustomKey sees keys before scrolling. It reports whether it used the key.
	OnCustomKey  func(msg tea.KeyMsg, actions types.ActionHandler) (bool, tea.Cmd)
	RenderHeader func() string
	RenderFooter func() string

	// FooterRendersViewport leaves placing the viewport to RenderFooter
	FooterRendersViewport bool
}

// BaseOverlay is embedded by every overlay. It owns the scrollable viewport
// and the overlay size, and it turns esc and ctrl+c into Closed.
type BaseOverlay struct {
	cfg      BaseOverlayConfig
	viewport viewport.Model
	width    int
	height   int
	focused  bool
	closed   bool
}

// NewBaseOverlay creates a focused base overlay.
func NewBaseOverlay(cfg BaseOverlayConfig) *BaseOverlay {
	vp := viewport.New(cfg.ViewportWidth, cfg.ViewportHeight)
	vp.Style = lipgloss.NewStyle()
	vp.SetContent(cfg.Content)

	return &BaseOverlay{
		cfg:      cfg,
		viewport: vp,
		width:    cfg.Width,
		height:   cfg.Height,
		focused:  true,
	}
}

// Update handles resizing, scrolling and the close keys. It reports whether
// msg was consumed.
func (b *BaseOverlay) Update(msg tea.Msg, actions types.ActionHandler) (bool, *BaseOverlay, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.viewport, cmd = b.viewport.Update(msg)
		return true, b, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case keyEsc, keyCtrlC:
			b.closed = true
			return true, b, nil
		}

		if b.cfg.OnCustomKey != nil {
			if handled, cmd := b.cfg.OnCustomKey(msg, actions); handled {
				return true, b, cmd
			}
		}

		switch msg.String() {
		case "home":
			b.viewport.GotoTop()
			return true, b, nil
		case "end":
			b.viewport.GotoBottom()
			return true, b, nil
		case "up", "down", "pgup", "pgdown", "j", "k":
			b.viewport, cmd = b.viewport.Update(msg)
			return true, b, cmd
		}
	}
	return false, b, nil
}

// View stacks header, viewport and footer inside the overlay border.
func (b *BaseOverlay) View(contentWidth int) string {
	var parts []string
	if b.cfg.RenderHeader != nil {
		parts = append(parts, b.cfg.RenderHeader())
	}
	if !b.cfg.FooterRendersViewport {
		parts = append(parts, b.viewport.View())
	}
	if b.cfg.RenderFooter != nil {
		parts = append(parts, b.cfg.RenderFooter())
	}
	return types.CreateOverlayContainerStyle(contentWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Closed reports whether a close key was pressed. Overlays return nil from
// Update once closed.
func (b *BaseOverlay) Closed() bool { return b.closed }

// close marks the overlay closed from an overlay's own key handling
func (b *BaseOverlay) close() { b.closed = true }

func (b *BaseOverlay) SetContent(content string) { b.viewport.SetContent(content) }

func (b *BaseOverlay) Viewport() *viewport.Model { return &b.viewport }

func (b *BaseOverlay) Focused() bool { return b.focused }

func (b *BaseOverlay) SetFocused(focused bool) { b.focused = focused }

func (b *BaseOverlay) Width() int { return b.width }

func (b *BaseOverlay) Height() int { return b.height }

func (b *BaseOverlay) SetDimensions(width, height int) {
	b.width, b.height = width, height
}
