package overlay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

var (
	outputStatusStyle = lipgloss.NewStyle().
				Foreground(types.MutedGray).
				Italic(true)

	outputStderrStyle = lipgloss.NewStyle().
				Foreground(types.ErrorRed)
)

// OutputOverlay shows a running witadmin export or import and its captured
// output once it finishes. Esc cancels a running call.
type OutputOverlay struct {
	*BaseOverlay
	opID      int
	title     string
	path      string
	status    string
	exitCode  int
	isRunning bool
	canceled  bool
	cancel    context.CancelFunc
}

// NewOutputOverlay creates the overlay for operation opID. cancel stops the
// witadmin process and may be nil.
func NewOutputOverlay(opID int, title, path string, cancel context.CancelFunc, width int) *OutputOverlay {
	overlayWidth := min(max(width-10, 60), 110)

	overlay := &OutputOverlay{
		opID:      opID,
		title:     title,
		path:      path,
		status:    "Running witadmin...",
		isRunning: true,
		cancel:    cancel,
	}

	baseConfig := BaseOverlayConfig{
		Width:                 overlayWidth,
		Height:                26,
		ViewportWidth:         overlayWidth - 6,
		ViewportHeight:        16,
		RenderHeader:          overlay.renderHeader,
		RenderFooter:          overlay.renderFooter,
		FooterRendersViewport: true,
	}

	overlay.BaseOverlay = NewBaseOverlay(baseConfig)
	return overlay
}

// OpID returns the operation the overlay belongs to
func (o *OutputOverlay) OpID() int {
	return o.opID
}

// Running reports whether the witadmin call is still in flight
func (o *OutputOverlay) Running() bool {
	return o.isRunning
}

// Update handles messages for the output overlay
func (o *OutputOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	switch msg := msg.(type) {
	case autoCloseMsg:
		if msg.opID == o.opID && !o.isRunning {
			return nil, nil
		}
		return o, nil

	case types.WitadminDoneMsg:
		if msg.OpID != o.opID {
			return o, nil
		}
		return o.finish(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, keyEsc:
			if o.isRunning {
				if o.cancel != nil && !o.canceled {
					o.cancel()
					o.canceled = true
					o.status = "Canceling..."
				}
				return o, nil
			}
			return nil, nil
		}
	}

	handled, updatedBase, cmd := o.BaseOverlay.Update(msg, actions)
	o.BaseOverlay = updatedBase
	if handled {
		return o, cmd
	}
	return o, nil
}

func (o *OutputOverlay) finish(msg types.WitadminDoneMsg) (types.Overlay, tea.Cmd) {
	o.isRunning = false
	o.exitCode = msg.Result.ExitCode

	var exitErr *witadmin.ExitError
	switch {
	case msg.Err == nil:
		o.status = fmt.Sprintf("Completed in %s (exit code 0)", msg.Result.Duration.Round(time.Millisecond))
	case o.canceled || errors.Is(msg.Err, context.Canceled):
		// The user asked for this, there is nothing to read.
		return nil, toastCmd("witadmin canceled", o.title, "⚠", false)
	case errors.As(msg.Err, &exitErr):
		o.exitCode = exitErr.ExitCode
		o.status = fmt.Sprintf("Failed in %s (exit code %d)", msg.Result.Duration.Round(time.Millisecond), exitErr.ExitCode)
	default:
		if o.exitCode == 0 {
			o.exitCode = -1
		}
		o.status = "Failed: " + msg.Err.Error()
	}

	o.SetContent(formatResult(msg.Result))
	o.Viewport().GotoBottom()

	return o, tea.Batch(o.maybeAutoClose(), o.exitToast())
}

func formatResult(res witadmin.Result) string {
	var b strings.Builder
	if res.Command != "" {
		b.WriteString("$ " + res.Command + "\n\n")
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		b.WriteString(out + "\n")
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		b.WriteString(outputStderrStyle.Render(errOut) + "\n")
	}
	if strings.TrimSpace(res.Stdout) == "" && strings.TrimSpace(res.Stderr) == "" {
		b.WriteString(outputStatusStyle.Render("(no output)"))
	}
	return b.String()
}

func (o *OutputOverlay) renderHeader() string {
	var b strings.Builder
	b.WriteString(types.OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	if o.path != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", o.path))
	}
	b.WriteString(outputStatusStyle.Render(o.status))
	return b.String()
}

func (o *OutputOverlay) renderFooter() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(o.BaseOverlay.Viewport().View())
	b.WriteString("\n")
	if o.isRunning {
		b.WriteString(types.OverlayHelpStyle.Render("Ctrl+C or Esc: Cancel"))
	} else {
		b.WriteString(types.OverlayHelpStyle.Render("↑↓: Scroll | Esc: Close"))
	}
	return b.String()
}

// View renders the overlay
func (o *OutputOverlay) View() string {
	return o.BaseOverlay.View(o.Width())
}

// autoCloseMsg is sent after the auto-close delay
type autoCloseMsg struct {
	opID int
}

// maybeAutoClose schedules closing the overlay when the ui settings allow it
// for this exit code.
func (o *OutputOverlay) maybeAutoClose() tea.Cmd {
	ui := config.GetUI()
	if ui == nil || !ui.ShouldAutoClose(o.exitCode) {
		return nil
	}

	opID := o.opID
	return tea.Tick(ui.AutoCloseDelayValue(), func(time.Time) tea.Msg {
		return autoCloseMsg{opID: opID}
	})
}

// exitToast reports the result as a toast when the overlay is about to close
// on its own.
func (o *OutputOverlay) exitToast() tea.Cmd {
	ui := config.GetUI()
	if ui == nil || !ui.ShouldAutoClose(o.exitCode) {
		return nil
	}
	if o.exitCode == 0 {
		return toastCmd(o.title+" completed", o.path, "✓", false)
	}
	return toastCmd(fmt.Sprintf("%s failed with exit code %d", o.title, o.exitCode), o.path, "✗", true)
}

func toastCmd(message, details, icon string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return types.ToastMsg{
			Message: message,
			Details: details,
			Icon:    icon,
			IsError: isError,
		}
	}
}
