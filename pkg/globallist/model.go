// Package globallist reads and edits the global list XML documents produced by
// `witadmin exportgloballist` and consumed by `witadmin importgloballist`.
//
// The package is organized as follows:
// - model.go: in-memory list types
// - document.go: XML load, query, mutation and save
// - filter.go: search text matching for names and values
// - watch.go: change notifications for the on-disk document
package globallist

import "errors"

const (
	// Namespace is the XML namespace of the GLOBALLISTS root element.
	Namespace = "http://schemas.microsoft.com/VisualStudio/2005/workitemtracking/globallists"

	rootTag  = "GLOBALLISTS"
	listTag  = "GLOBALLIST"
	itemTag  = "LISTITEM"
	nameAttr = "name"
	valAttr  = "value"
)

var (
	// ErrListNotFound is returned when no GLOBALLIST element carries the requested name.
	ErrListNotFound = errors.New("global list not found")

	// ErrListExists is returned when adding a list whose name is already taken.
	ErrListExists = errors.New("global list already exists")

	// ErrEmptyValue is returned when an item value or list name is blank.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// GlobalLists is the full set of lists held by one document.
type GlobalLists struct {
	Lists []GlobalList
}

// Names returns the list names in document order.
func (g GlobalLists) Names() []string {
	names := make([]string, 0, len(g.Lists))
	for _, l := range g.Lists {
		names = append(names, l.Name)
	}
	return names
}

// Find returns the list with the given name.
func (g GlobalLists) Find(name string) (GlobalList, bool) {
	for _, l := range g.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return GlobalList{}, false
}

// GlobalList is a named pick-list.
type GlobalList struct {
	Name     string
	Items    []ListItem
	Selected bool
}

// Values returns the item values in order.
func (l GlobalList) Values() []string {
	values := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		values = append(values, it.Value)
	}
	return values
}

// ListItem is one permissible value of a global list.
type ListItem struct {
	Value    string
	Selected bool
}
