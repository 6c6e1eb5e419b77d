package overlay

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
)

const previewStyle = "monokai"

// PreviewOverlay shows syntax highlighted XML
type PreviewOverlay struct {
	*BaseOverlay
	title  string
	source string
}

// NewPreviewOverlay creates a preview of source sized to the terminal
func NewPreviewOverlay(title, source string, width, height int) *PreviewOverlay {
	overlayWidth := max(int(float64(width)*0.9), 60)
	viewportHeight := max(height-10, 5)

	overlay := &PreviewOverlay{
		title:  title,
		source: source,
	}

	baseConfig := BaseOverlayConfig{
		Width:          overlayWidth,
		Height:         viewportHeight + 6,
		ViewportWidth:  overlayWidth - 6,
		ViewportHeight: viewportHeight,
		Content:        HighlightXML(source),
		OnCustomKey: func(msg tea.KeyMsg, actions types.ActionHandler) (bool, tea.Cmd) {
			switch msg.String() {
			case keyY:
				text := overlay.source
				return true, func() tea.Msg {
					return types.CopyMsg{Text: text, Label: "XML"}
				}
			case keyQ, keyEnter:
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

// HighlightXML colors source for a 256 color terminal. Source that cannot be
// tokenised is returned unchanged.
func HighlightXML(source string) string {
	lexer := lexers.Get("xml")
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(previewStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return source
	}
	return b.String()
}

// Update handles messages for the preview overlay
func (p *PreviewOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	handled, updatedBase, cmd := p.BaseOverlay.Update(msg, actions)
	p.BaseOverlay = updatedBase

	if p.Closed() {
		return nil, cmd
	}
	if handled {
		return p, cmd
	}
	return p, nil
}

func (p *PreviewOverlay) renderHeader() string {
	return types.OverlayTitleStyle.Render(p.title) + "\n"
}

func (p *PreviewOverlay) renderFooter() string {
	return "\n" + types.OverlayHelpStyle.Render("↑↓: Scroll | y: Copy XML | Esc: Close")
}

// View renders the preview overlay
func (p *PreviewOverlay) View() string {
	return p.BaseOverlay.View(p.Width())
}
