// Package tui provides the interactive terminal interface of the global list
// editor: an environment picker, the global lists and their items side by
// side, and overlays for witadmin output, XML preview and help.
//
// The TUI codebase is split into multiple files for better organization:
// - executor.go: program lifecycle
// - model.go: core model structure and state
// - update.go: Bubble Tea Update function and key handling
// - commands.go: background work and editor commands
// - view.go: Bubble Tea View function and rendering
// - overlay.go: overlay state and placement
// - styles.go: styling
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/logging"
)

// Executor runs the terminal UI over an editor session.
type Executor struct {
	editor      *editor.Editor
	logger      *logging.Logger
	environment string
	program     *tea.Program
}

// NewExecutor creates a TUI executor. environment, when not empty, is
// selected on startup.
func NewExecutor(ed *editor.Editor, logger *logging.Logger, environment string) *Executor {
	if logger == nil {
		logger = logging.NewNop("tui")
	}
	return &Executor{
		editor:      ed,
		logger:      logger,
		environment: environment,
	}
}

// Run starts the TUI and blocks until the user exits or ctx is canceled.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.Infof("TUI starting with %d environment(s)", len(e.editor.Environments()))

	m := newModel(ctx, e.editor, e.logger)
	m.initialEnv = e.environment
	defer m.shutdown()

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := e.program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI program: %w", err)
	}

	e.logger.Infof("TUI exited")
	return nil
}

// shutdown stops background work started by the model
func (m *model) shutdown() {
	m.cancelRefresh()
	m.stopWatcher()
}
