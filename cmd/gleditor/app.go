package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/logging"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

// app holds the global flags and the services built from them
type app struct {
	// Global flags
	configPath   string
	settingsPath string
	witadminPath string
	verbose      bool

	logger *logging.Logger

	// newClient builds the witadmin client; tests replace it
	newClient func(logger *logging.Logger) editor.Client
	// newLogger opens the session log; tests replace it
	newLogger func() *logging.Logger
}

func newApp() *app {
	a := &app{}
	a.newClient = a.witadminClient
	a.newLogger = func() *logging.Logger {
		logger, err := logging.NewLogger("gleditor")
		if err != nil {
			logger.Warnf("file logging unavailable: %v", err)
		}
		return logger
	}
	return a
}

// setup loads the configuration and merges the app settings file.
func (a *app) setup(cmd *cobra.Command) error {
	logging.SetVerbose(a.verbose)
	a.logger = a.newLogger()

	path := config.ResolvePath(a.configPath)
	if err := config.Initialize(path); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if fs, ok := config.Global().Store().(*config.FileStore); ok {
		a.logger.Debugf("configuration loaded from %s", fs.Path())
	}

	if a.witadminPath != "" {
		config.GetWitadmin().SetBinary(a.witadminPath)
	}

	if a.settingsPath != "" {
		settings, err := config.LoadAppSettings(a.settingsPath)
		if err != nil {
			return err
		}
		if err := config.GetEnvironments().MergeAppSettings(settings); err != nil {
			return fmt.Errorf("invalid environments in %s: %w", a.settingsPath, err)
		}
		a.logger.Infof("merged %d environment(s) from %s", len(settings.EnvironmentNames()), a.settingsPath)
	}
	return nil
}

// teardown flushes and drops the session log
func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Close()
		a.logger = nil
	}
}

func (a *app) witadminClient(logger *logging.Logger) editor.Client {
	binary, timeout := config.GetWitadmin().Settings()
	return witadmin.NewClient(
		witadmin.WithBinary(binary),
		witadmin.WithRunner(witadmin.NewExecRunner(timeout)),
		witadmin.WithLogger(logger),
	)
}

// newEditor creates an editing session over the configured environments.
// The refresh delay only applies to the interactive UI.
func (a *app) newEditor(refreshDelay time.Duration) *editor.Editor {
	return editor.New(
		config.GetEnvironments(),
		a.newClient(a.logger),
		editor.WithLogger(a.logger),
		editor.WithRefreshDelay(refreshDelay),
	)
}

// openEnvironment creates an editor with env selected. With export set the
// lists are exported first, otherwise the downloaded working file is read.
func (a *app) openEnvironment(cmd *cobra.Command, env string, export bool) (*editor.Editor, error) {
	if _, ok := config.GetEnvironments().Lookup(env); !ok {
		return nil, fmt.Errorf("unknown environment %q (configured: %v)", env, config.GetEnvironments().Names())
	}

	ed := a.newEditor(0)
	ed.SelectEnvironment(env)

	if export {
		if _, err := ed.Refresh(cmd.Context()); err != nil {
			return nil, err
		}
		return ed, nil
	}
	if err := ed.Reload(); err != nil {
		return nil, fmt.Errorf("failed to read the working file of %s (run with --export first): %w", env, err)
	}
	return ed, nil
}
