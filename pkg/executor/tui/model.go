package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui/types"
	"github.com/surivin/Global-List-Editor/pkg/globallist"
	"github.com/surivin/Global-List-Editor/pkg/logging"
)

// clipboardWriteAll is swapped out in tests
var clipboardWriteAll = clipboard.WriteAll

// model represents the state of the TUI application.
type model struct {
	ctx    context.Context
	editor *editor.Editor
	logger *logging.Logger

	// Bubble Tea components
	envList    list.Model
	listList   list.Model
	itemList   list.Model
	listSearch textinput.Model
	itemSearch textinput.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap

	// UI state
	focus     types.Pane
	searching bool // search input of the focused pane has the cursor
	overlay   *overlayState
	toast     *toastNotification

	// Background work
	busy           bool
	loadingMessage string
	opSeq          int
	refreshCancel  context.CancelFunc
	refreshSeq     int
	watcher        *globallist.Watcher
	watchCancel    context.CancelFunc

	// Environment selected on startup
	initialEnv string

	// Window dimensions
	width  int
	height int
	ready  bool

	// Application state
	shouldQuit bool
}

// refreshDoneMsg carries the outcome of Editor.Refresh
type refreshDoneMsg struct {
	seq   int
	env   string
	names []string
	err   error
}

// selectEnvMsg selects an environment, used for the startup environment
type selectEnvMsg struct {
	name string
}

// fileChangedMsg is sent when the working file changed on disk
type fileChangedMsg struct {
	watcher *globallist.Watcher
	change  globallist.Change
}

// toastExpiredMsg clears the toast once its time is up
type toastExpiredMsg struct {
	until time.Time
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	details   string
	icon      string
	isError   bool
	showUntil time.Time
}

// entry is a row of one of the three panes
type entry struct {
	name     string
	selected bool
	current  bool // the selected environment
}

func (e entry) FilterValue() string { return e.name }

func (e entry) Title() string {
	switch {
	case e.current:
		return "● " + e.name
	case e.selected:
		return "[x] " + e.name
	}
	return "[ ] " + e.name
}

func (e entry) Description() string { return "" }

// envEntry renders environments without a checkbox
type envEntry struct {
	entry
}

func (e envEntry) Title() string {
	if e.current {
		return "● " + e.name
	}
	return "  " + e.name
}

// entryDelegate renders pane rows on a single line
type entryDelegate struct {
	list.DefaultDelegate
}

func newEntryDelegate() entryDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(types.SalmonPink).
		BorderForeground(types.SalmonPink)
	d.Styles.NormalTitle = d.Styles.NormalTitle.
		Foreground(types.BrightWhite)
	d.Styles.DimmedTitle = d.Styles.DimmedTitle.
		Foreground(types.MutedGray)

	return entryDelegate{DefaultDelegate: d}
}

func newPaneList(title string) list.Model {
	l := list.New([]list.Item{}, newEntryDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"))
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	l.SetShowPagination(true)
	l.Styles.Title = paneTitleStyle
	l.Styles.TitleBar = l.Styles.TitleBar.Padding(0, 0, 1, 0)
	l.Styles.NoItems = l.Styles.NoItems.Foreground(types.MutedGray)
	return l
}

func newSearchInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.PromptStyle = searchPromptStyle
	ti.Cursor.Style = searchPromptStyle
	return ti
}

// newModel creates the model for ed. ctx bounds the background witadmin calls.
func newModel(ctx context.Context, ed *editor.Editor, logger *logging.Logger) *model {
	if logger == nil {
		logger = logging.NewNop("tui")
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	h := help.New()
	h.Styles.ShortKey = helpKeyStyle
	h.Styles.ShortDesc = helpDescStyle
	h.Styles.ShortSeparator = helpDescStyle

	m := &model{
		ctx:        ctx,
		editor:     ed,
		logger:     logger,
		envList:    newPaneList(types.PaneEnvironments.String()),
		listList:   newPaneList(types.PaneLists.String()),
		itemList:   newPaneList(types.PaneItems.String()),
		listSearch: newSearchInput("search lists (glob ok)"),
		itemSearch: newSearchInput("search or new item"),
		spinner:    s,
		help:       h,
		keys:       defaultKeyMap(),
		focus:      types.PaneEnvironments,
		overlay:    newOverlayState(),
		toast:      &toastNotification{},
	}
	m.envList.SetStatusBarItemName("environment", "environments")
	m.listList.SetStatusBarItemName("list", "lists")
	m.itemList.SetStatusBarItemName("item", "items")
	m.syncAll()
	return m
}

// nextOpID numbers witadmin runs so late results reach the right overlay
func (m *model) nextOpID() int {
	m.opSeq++
	return m.opSeq
}

// paneList returns the list model of p
func (m *model) paneList(p types.Pane) *list.Model {
	switch p {
	case types.PaneLists:
		return &m.listList
	case types.PaneItems:
		return &m.itemList
	}
	return &m.envList
}

// searchInput returns the search input of p, nil for the environment pane
func (m *model) searchInput(p types.Pane) *textinput.Model {
	switch p {
	case types.PaneLists:
		return &m.listSearch
	case types.PaneItems:
		return &m.itemSearch
	}
	return nil
}

// highlighted returns the name under the cursor of the focused pane
func (m *model) highlighted() (string, bool) {
	item := m.paneList(m.focus).SelectedItem()
	switch e := item.(type) {
	case entry:
		return e.name, true
	case envEntry:
		return e.name, true
	}
	return "", false
}

// syncAll rebuilds the three panes from the editor state.
func (m *model) syncAll() {
	state := m.editor.Snapshot()

	envs := make([]list.Item, 0, len(state.Environments))
	for _, name := range state.Environments {
		envs = append(envs, envEntry{entry{name: name, current: name == state.SelectedEnvironment}})
	}
	setItems(&m.envList, envs)

	lists := m.editor.FilteredLists()
	listItems := make([]list.Item, 0, len(lists))
	for _, l := range lists {
		listItems = append(listItems, entry{name: l.Name, selected: l.Selected})
	}
	setItems(&m.listList, listItems)
	m.listList.Title = paneTitle(types.PaneLists, len(lists), len(state.Lists))

	items := m.editor.FilteredItems()
	itemItems := make([]list.Item, 0, len(items))
	for _, it := range items {
		itemItems = append(itemItems, entry{name: it.Value, selected: it.Selected})
	}
	setItems(&m.itemList, itemItems)
	m.itemList.Title = paneTitle(types.PaneItems, len(items), len(state.Items))
	if state.SelectedList != "" {
		m.itemList.Title += " of " + state.SelectedList
	}
}

func paneTitle(p types.Pane, shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%s (%d)", p, total)
	}
	return fmt.Sprintf("%s (%d/%d)", p, shown, total)
}

// setItems replaces the rows and keeps the cursor in range.
func setItems(l *list.Model, items []list.Item) {
	idx := l.Index()
	l.SetItems(items)
	switch {
	case len(items) == 0:
		l.ResetSelected()
	case idx >= len(items):
		l.Select(len(items) - 1)
	}
}
