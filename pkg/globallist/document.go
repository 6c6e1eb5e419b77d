package globallist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Document is a global list XML document bound to a file on disk.
// A Document is not safe for concurrent use.
type Document struct {
	path string
	doc  *etree.Document
}

// New creates an empty document with a namespaced GLOBALLISTS root.
// The document is not written until Save is called.
func New(path string) *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("gl:" + rootTag)
	root.CreateAttr("xmlns:gl", Namespace)
	return &Document{path: path, doc: doc}
}

// Load reads and parses the document at path.
// A missing file yields an error that wraps fs.ErrNotExist.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open global list file: %w", err)
	}
	defer file.Close()

	d, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	d.path = path
	return d, nil
}

// Parse reads a document from r. The result has no backing path until SaveAs is used.
func Parse(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return &Document{doc: doc}, nil
}

// Path returns the file the document was loaded from or will be saved to.
func (d *Document) Path() string {
	return d.path
}

// listElements returns every GLOBALLIST element at any depth, in document order.
func (d *Document) listElements() []*etree.Element {
	return d.doc.FindElements("//" + listTag)
}

// findList returns the first GLOBALLIST whose name attribute equals name exactly.
func (d *Document) findList(name string) *etree.Element {
	for _, el := range d.listElements() {
		if el.SelectAttrValue(nameAttr, "") == name {
			return el
		}
	}
	return nil
}

// ListNames returns the name of every list in document order.
func (d *Document) ListNames() []string {
	elements := d.listElements()
	names := make([]string, 0, len(elements))
	for _, el := range elements {
		names = append(names, el.SelectAttrValue(nameAttr, ""))
	}
	return names
}

// Lists returns every list together with its items.
func (d *Document) Lists() GlobalLists {
	var out GlobalLists
	for _, el := range d.listElements() {
		gl := GlobalList{Name: el.SelectAttrValue(nameAttr, "")}
		for _, item := range el.SelectElements(itemTag) {
			gl.Items = append(gl.Items, ListItem{Value: item.SelectAttrValue(valAttr, "")})
		}
		out.Lists = append(out.Lists, gl)
	}
	return out
}

// Items returns the values of the direct LISTITEM children of the named list.
func (d *Document) Items(name string) ([]string, error) {
	el := d.findList(name)
	if el == nil {
		return nil, fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	children := el.SelectElements(itemTag)
	values := make([]string, 0, len(children))
	for _, item := range children {
		values = append(values, item.SelectAttrValue(valAttr, ""))
	}
	return values, nil
}

// AddItem appends a LISTITEM with the given value to the named list.
func (d *Document) AddItem(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}
	el := d.findList(name)
	if el == nil {
		return fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	item := el.CreateElement(itemTag)
	item.CreateAttr(valAttr, value)
	return nil
}

// RemoveItem removes every LISTITEM of the named list whose value equals value,
// ignoring case. It returns the number of items removed.
func (d *Document) RemoveItem(name, value string) (int, error) {
	el := d.findList(name)
	if el == nil {
		return 0, fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	removed := 0
	for _, item := range el.SelectElements(itemTag) {
		if strings.EqualFold(item.SelectAttrValue(valAttr, ""), value) {
			el.RemoveChild(item)
			removed++
		}
	}
	return removed, nil
}

// AddList appends an empty GLOBALLIST with the given name under the root element.
func (d *Document) AddList(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyValue
	}
	if d.findList(name) != nil {
		return fmt.Errorf("%w: %q", ErrListExists, name)
	}

	el := d.doc.Root().CreateElement(listTag)
	el.CreateAttr(nameAttr, name)
	return nil
}

// RemoveList removes the named list and all of its items.
func (d *Document) RemoveList(name string) error {
	el := d.findList(name)
	if el == nil {
		return fmt.Errorf("%w: %q", ErrListNotFound, name)
	}
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
	return nil
}

// ListXML renders the named list element as indented XML.
func (d *Document) ListXML(name string) (string, error) {
	el := d.findList(name)
	if el == nil {
		return "", fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	single := etree.NewDocument()
	single.SetRoot(el.Copy())
	single.Indent(2)
	return single.WriteToString()
}

// String renders the whole document as indented XML.
func (d *Document) String() string {
	d.doc.Indent(2)
	s, err := d.doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("document has no path")
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to path and rebinds the document to it.
// The write goes to a temp file first and is renamed into place.
func (d *Document) SaveAs(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	d.doc.Indent(2)

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := d.doc.WriteTo(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write global lists: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	d.path = path
	return nil
}

// Update loads the document at path, applies fn and saves it when fn succeeds.
func Update(path string, fn func(d *Document) error) error {
	d, err := Load(path)
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	return d.Save()
}
