// Package editor holds the state of a global list editing session and
// implements its commands. The terminal UI and the CLI both drive an Editor.
//
// An Editor is safe for concurrent use. Long-running witadmin calls are made
// without holding the lock so the UI can keep rendering snapshots.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/globallist"
	"github.com/surivin/Global-List-Editor/pkg/logging"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

var (
	// ErrNoEnvironment is returned by commands that need a selected environment.
	ErrNoEnvironment = errors.New("no environment selected")

	// ErrNotConfigured is returned when the environment lacks a URL or download location.
	ErrNotConfigured = errors.New("environment url or download location is not configured")

	// ErrNoListSelected is returned when exactly one list must be selected.
	ErrNoListSelected = errors.New("select exactly one global list")

	// ErrItemExists is returned when adding a value the list already holds, ignoring case.
	ErrItemExists = errors.New("item already exists")

	// ErrNothingToDelete is returned when neither the search text nor the selection names an item.
	ErrNothingToDelete = errors.New("no matching or selected items to delete")

	// ErrSuperseded is returned when the environment changed while a refresh was running.
	ErrSuperseded = errors.New("environment changed during refresh")
)

// EnvironmentSource provides the configured environments.
type EnvironmentSource interface {
	Names() []string
	Lookup(name string) (config.Environment, bool)
}

// Client exports and imports global lists. *witadmin.Client implements it.
type Client interface {
	ExportGlobalLists(ctx context.Context, collectionURL, file string) (witadmin.Result, error)
	ImportGlobalLists(ctx context.Context, collectionURL, file string) (witadmin.Result, error)
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRefreshDelay sets the pause before each export started by Refresh.
func WithRefreshDelay(d time.Duration) Option {
	return func(e *Editor) {
		if d >= 0 {
			e.refreshDelay = d
		}
	}
}

// Editor is one editing session.
type Editor struct {
	mu           sync.Mutex
	envs         EnvironmentSource
	client       Client
	logger       *logging.Logger
	refreshDelay time.Duration

	environments []string
	environment  string
	url          string
	downloadDir  string
	location     string
	lists        []globallist.GlobalList
	items        []globallist.ListItem
	itemsOf      string
	listSearch   string
	itemSearch   string
	loading      int
	generation   int
}

// New creates an editor over the configured environments.
func New(envs EnvironmentSource, client Client, opts ...Option) *Editor {
	e := &Editor{
		envs:   envs,
		client: client,
		logger: logging.NewNop("editor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.environments = envs.Names()
	return e
}

// Environments returns the environment names in configured order.
func (e *Editor) Environments() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.environments...)
}

// SelectEnvironment switches to the named environment. The name is trimmed and
// selecting the current environment again does nothing. Switching resolves the
// URL and download location and clears the lists and items.
//
// It reports whether the caller should Refresh, which is when an environment
// is selected and has a URL.
func (e *Editor) SelectEnvironment(name string) bool {
	name = strings.TrimSpace(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if name == e.environment {
		return false
	}

	e.environment = name
	e.generation++
	e.url, e.downloadDir, e.location = "", "", ""
	if name != "" {
		if env, ok := e.envs.Lookup(name); ok {
			e.url = env.URL
			e.downloadDir = env.DownloadDir
			e.location = env.GlobalListPath()
		} else {
			e.logger.Warnf("environment %q is not configured", name)
		}
	}

	e.lists = nil
	e.items = nil
	e.itemsOf = ""

	e.logger.Infof("selected environment %q (url=%q, location=%q)", name, e.url, e.location)
	return name != "" && strings.TrimSpace(e.url) != ""
}

// SetListSearch sets the text filtering the global lists.
func (e *Editor) SetListSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listSearch = text
}

// SetItemSearch sets the text filtering the items. The same text is the value
// added by AddItem and the value deleted by DeleteItems.
func (e *Editor) SetItemSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.itemSearch = text
}

// State is a point-in-time copy of an editor's state.
type State struct {
	Environments        []string
	SelectedEnvironment string
	EnvironmentURL      string
	DownloadDir         string

	// DownloadLocation is the working XML file inside DownloadDir
	DownloadLocation string

	Lists         []globallist.GlobalList
	SelectedLists []string

	// SelectedList is set only when exactly one list is selected
	SelectedList string

	Items         []globallist.ListItem
	SelectedItems []string

	ListSearch string
	ItemSearch string
	Loading    bool

	CanAddItem    bool
	CanDeleteItem bool
	CanDownload   bool
	CanApply      bool
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		Environments:        append([]string(nil), e.environments...),
		SelectedEnvironment: e.environment,
		EnvironmentURL:      e.url,
		DownloadDir:         e.downloadDir,
		DownloadLocation:    e.location,
		Lists:               append([]globallist.GlobalList(nil), e.lists...),
		SelectedLists:       e.selectedListsLocked(),
		SelectedList:        e.selectedListLocked(),
		Items:               append([]globallist.ListItem(nil), e.items...),
		SelectedItems:       e.selectedItemsLocked(),
		ListSearch:          e.listSearch,
		ItemSearch:          e.itemSearch,
		Loading:             e.loading > 0,
		CanAddItem:          e.canAddItemLocked(),
		CanDeleteItem:       e.canDeleteItemLocked(),
		CanDownload:         e.canDownloadLocked(),
		CanApply:            e.canApplyLocked(),
	}
}

// Loading reports whether a witadmin call is in flight.
func (e *Editor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading > 0
}

func (e *Editor) beginLoading() {
	e.mu.Lock()
	e.loading++
	e.mu.Unlock()
}

func (e *Editor) endLoading() {
	e.mu.Lock()
	e.loading--
	e.mu.Unlock()
}
