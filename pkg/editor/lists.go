package editor

import (
	"fmt"
	"strings"

	"github.com/surivin/Global-List-Editor/pkg/globallist"
)

// FilteredLists returns the lists whose names match the list search text.
func (e *Editor) FilteredLists() []globallist.GlobalList {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := globallist.NewMatcher(e.listSearch)
	out := make([]globallist.GlobalList, 0, len(e.lists))
	for _, l := range e.lists {
		if m.Match(l.Name) {
			out = append(out, l)
		}
	}
	return out
}

// FilteredItems returns the items whose values match the item search text.
func (e *Editor) FilteredItems() []globallist.ListItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := globallist.NewMatcher(e.itemSearch)
	out := make([]globallist.ListItem, 0, len(e.items))
	for _, it := range e.items {
		if m.Match(it.Value) {
			out = append(out, it)
		}
	}
	return out
}

// ToggleList flips the selection of the named list.
func (e *Editor) ToggleList(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.listIndexLocked(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", globallist.ErrListNotFound, name)
	}
	e.lists[i].Selected = !e.lists[i].Selected
	e.selectionChangedLocked()
	return nil
}

// SetSelectedLists replaces the list selection. Unknown names are an error and
// leave the selection unchanged.
func (e *Editor) SetSelectedLists(names []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if e.listIndexLocked(name) < 0 {
			return fmt.Errorf("%w: %q", globallist.ErrListNotFound, name)
		}
		want[name] = true
	}
	for i := range e.lists {
		e.lists[i].Selected = want[e.lists[i].Name]
	}
	e.selectionChangedLocked()
	return nil
}

// SelectList makes name the only selected list.
func (e *Editor) SelectList(name string) error {
	return e.SetSelectedLists([]string{name})
}

// SelectedList returns the selected list when exactly one is selected.
func (e *Editor) SelectedList() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	name := e.selectedListLocked()
	return name, name != ""
}

// ToggleItem flips the selection of the item with the given value.
func (e *Editor) ToggleItem(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].Value == value {
			e.items[i].Selected = !e.items[i].Selected
			return nil
		}
	}
	return fmt.Errorf("item %q not found", value)
}

// CanAddItem reports whether the item search text is a new value for the list.
func (e *Editor) CanAddItem() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canAddItemLocked()
}

// CanDeleteItem reports whether DeleteItems has something to delete.
func (e *Editor) CanDeleteItem() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canDeleteItemLocked()
}

// AddItem appends the trimmed item search text to the selected list, in memory
// and in the working file, and clears the search text.
func (e *Editor) AddItem() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value := strings.TrimSpace(e.itemSearch)
	if value == "" {
		return "", globallist.ErrEmptyValue
	}
	list := e.selectedListLocked()
	if list == "" {
		return "", ErrNoListSelected
	}
	if e.hasItemLocked(value) {
		return "", fmt.Errorf("%w: %q", ErrItemExists, value)
	}

	err := globallist.Update(e.location, func(d *globallist.Document) error {
		return d.AddItem(list, value)
	})
	if err != nil {
		return "", fmt.Errorf("failed to add %q to %s: %w", value, list, err)
	}

	e.items = append(e.items, globallist.ListItem{Value: value})
	e.itemSearch = ""
	e.logger.Infof("added %q to global list %s", value, list)
	return value, nil
}

// DeleteItems removes items from the selected list, in memory and in the
// working file, and clears the search text. When the item search text equals
// an item, that item is deleted. When it is blank every selected item is
// deleted.
// Values are compared ignoring case.
func (e *Editor) DeleteItems() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.selectedListLocked()
	if list == "" {
		return nil, ErrNoListSelected
	}

	targets := e.deleteTargetsLocked()
	if len(targets) == 0 {
		return nil, ErrNothingToDelete
	}

	err := globallist.Update(e.location, func(d *globallist.Document) error {
		for _, value := range targets {
			if _, err := d.RemoveItem(list, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", list, err)
	}

	kept := e.items[:0]
	for _, it := range e.items {
		if !globallist.ContainsFold(targets, it.Value) {
			kept = append(kept, it)
		}
	}
	e.items = kept
	e.itemSearch = ""
	e.logger.Infof("deleted %d value(s) from global list %s", len(targets), list)
	return targets, nil
}

// Reload rereads the lists from the working file, keeping the selection of
// lists that still exist. It is used after the file changed on disk.
func (e *Editor) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.location == "" {
		return ErrNotConfigured
	}

	doc, err := globallist.Load(e.location)
	if err != nil {
		return err
	}

	selected := make(map[string]bool)
	for _, name := range e.selectedListsLocked() {
		selected[name] = true
	}
	e.lists = listsFromNames(doc.ListNames())
	for i := range e.lists {
		e.lists[i].Selected = selected[e.lists[i].Name]
	}
	e.selectionChangedLocked()
	return nil
}

// PreviewXML renders the selected list as XML, or the whole working file when
// no single list is selected.
func (e *Editor) PreviewXML() (string, error) {
	e.mu.Lock()
	location, list := e.location, e.selectedListLocked()
	e.mu.Unlock()

	if location == "" {
		return "", ErrNotConfigured
	}
	doc, err := globallist.Load(location)
	if err != nil {
		return "", err
	}
	if list == "" {
		return doc.String(), nil
	}
	return doc.ListXML(list)
}

func listsFromNames(names []string) []globallist.GlobalList {
	lists := make([]globallist.GlobalList, 0, len(names))
	for _, name := range names {
		lists = append(lists, globallist.GlobalList{Name: name})
	}
	return lists
}

func (e *Editor) listIndexLocked(name string) int {
	for i, l := range e.lists {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func (e *Editor) selectedListsLocked() []string {
	var names []string
	for _, l := range e.lists {
		if l.Selected {
			names = append(names, l.Name)
		}
	}
	return names
}

func (e *Editor) selectedListLocked() string {
	if names := e.selectedListsLocked(); len(names) == 1 {
		return names[0]
	}
	return ""
}

func (e *Editor) selectedItemsLocked() []string {
	var values []string
	for _, it := range e.items {
		if it.Selected {
			values = append(values, it.Value)
		}
	}
	return values
}

// selectionChangedLocked loads the items of a single selected list. Item
// selections survive when the same list is reloaded. A read failure leaves no items.
func (e *Editor) selectionChangedLocked() {
	list := e.selectedListLocked()
	prevList := e.itemsOf
	e.itemsOf = list
	if list == "" || e.location == "" {
		e.items = nil
		return
	}

	doc, err := globallist.Load(e.location)
	if err != nil {
		e.logger.Warnf("failed to load items of %s: %v", list, err)
		e.items = nil
		return
	}
	values, err := doc.Items(list)
	if err != nil {
		e.logger.Warnf("failed to load items of %s: %v", list, err)
		e.items = nil
		return
	}

	prev := make(map[string]bool)
	if list == prevList {
		for _, v := range e.selectedItemsLocked() {
			prev[v] = true
		}
	}
	e.items = make([]globallist.ListItem, 0, len(values))
	for _, v := range values {
		e.items = append(e.items, globallist.ListItem{Value: v, Selected: prev[v]})
	}
}

func (e *Editor) hasItemLocked(value string) bool {
	for _, it := range e.items {
		if strings.EqualFold(it.Value, value) {
			return true
		}
	}
	return false
}

func (e *Editor) canAddItemLocked() bool {
	value := strings.TrimSpace(e.itemSearch)
	return value != "" && !e.hasItemLocked(value)
}

func (e *Editor) canDeleteItemLocked() bool {
	return len(e.deleteTargetsLocked()) > 0
}

func (e *Editor) deleteTargetsLocked() []string {
	value := strings.TrimSpace(e.itemSearch)
	if value == "" {
		return e.selectedItemsLocked()
	}
	// A search that names no item deletes nothing, even with items selected
	if e.hasItemLocked(value) {
		return []string{value}
	}
	return nil
}
