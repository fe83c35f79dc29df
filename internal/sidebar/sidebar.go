// Package sidebar reads navigation sidebar definitions.
//
// A sidebar file maps sidebar names to item lists. Items are either bare doc
// ids or objects with a type of doc, ref, category, link, autogenerated or
// html. Categories may also be written in the shorthand form
// {"Label": [items...]}.
package sidebar

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for sidebar files docsnap cannot parse,
// such as JavaScript modules. Such files are still copied verbatim.
var ErrUnsupportedFormat = errors.New("unsupported sidebar format")

// ItemType is the kind of a sidebar entry.
type ItemType string

const (
	ItemDoc           ItemType = "doc"
	ItemCategory      ItemType = "category"
	ItemLink          ItemType = "link"
	ItemAutogenerated ItemType = "autogenerated"
	ItemHTML          ItemType = "html"
)

// Item is one node of a sidebar.
type Item struct {
	Type    ItemType
	ID      string
	Label   string
	Href    string
	DirName string
	// LinkID is the doc a category itself links to, if any.
	LinkID string
	Items  []Item
}

// File is a parsed sidebar definition.
type File struct {
	Sidebars map[string][]Item
}

// Supported reports whether the extension of path is parseable.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
		return true
	}
	return false
}

// Load reads and parses the sidebar file at path.
func Load(fsys afero.Fs, path string) (*File, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes sidebar data. ext selects the decoder (".json", ".yml", ".yaml").
func Parse(data []byte, ext string) (*File, error) {
	var raw map[string]any
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse sidebar json: %w", err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse sidebar yaml: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	f := &File{Sidebars: make(map[string][]Item, len(raw))}
	for name, v := range raw {
		items, err := decodeSidebar(v, name)
		if err != nil {
			return nil, err
		}
		f.Sidebars[name] = items
	}
	return f, nil
}

// Names returns the sidebar names in lexical order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Sidebars))
	for n := range f.Sidebars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DocIDs returns every referenced doc id, sidebar by sidebar in name order and
// depth-first within a sidebar. Category link targets are included.
func (f *File) DocIDs() []string {
	var ids []string
	f.walk(func(it Item) {
		switch {
		case it.Type == ItemDoc && it.ID != "":
			ids = append(ids, it.ID)
		case it.Type == ItemCategory && it.LinkID != "":
			ids = append(ids, it.LinkID)
		}
	})
	return ids
}

// AutogeneratedDirs returns the dirName of every autogenerated item.
func (f *File) AutogeneratedDirs() []string {
	var dirs []string
	f.walk(func(it Item) {
		if it.Type == ItemAutogenerated {
			dirs = append(dirs, it.DirName)
		}
	})
	return dirs
}

func (f *File) walk(fn func(Item)) {
	var visit func(items []Item)
	visit = func(items []Item) {
		for _, it := range items {
			fn(it)
			visit(it.Items)
		}
	}
	for _, name := range f.Names() {
		visit(f.Sidebars[name])
	}
}

func decodeSidebar(v any, where string) ([]Item, error) {
	switch val := v.(type) {
	case []any:
		return decodeItems(val, where)
	case map[string]any:
		return decodeShorthand(val, where)
	default:
		return nil, fmt.Errorf("sidebar %q: expected a list or a category map, got %T", where, v)
	}
}

func decodeItems(list []any, where string) ([]Item, error) {
	items := make([]Item, 0, len(list))
	for i, raw := range list {
		it, err := decodeItem(raw, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		items = append(items, it...)
	}
	return items, nil
}

func decodeShorthand(m map[string]any, where string) ([]Item, error) {
	labels := make([]string, 0, len(m))
	for k := range m {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	items := make([]Item, 0, len(labels))
	for _, label := range labels {
		list, ok := m[label].([]any)
		if !ok {
			return nil, fmt.Errorf("%s.%s: shorthand category must be a list", where, label)
		}
		children, err := decodeItems(list, where+"."+label)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Type: ItemCategory, Label: label, Items: children})
	}
	return items, nil
}

func decodeItem(raw any, where string) ([]Item, error) {
	switch val := raw.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, fmt.Errorf("%s: empty doc id", where)
		}
		return []Item{{Type: ItemDoc, ID: val}}, nil
	case map[string]any:
		return decodeObject(val, where)
	default:
		return nil, fmt.Errorf("%s: unexpected item of type %T", where, raw)
	}
}

func decodeObject(m map[string]any, where string) ([]Item, error) {
	typ := str(m, "type")
	if typ == "" {
		switch {
		case str(m, "id") != "":
			typ = string(ItemDoc)
		case str(m, "href") != "":
			typ = string(ItemLink)
		case m["items"] != nil:
			typ = string(ItemCategory)
		default:
			return decodeShorthand(m, where)
		}
	}

	switch ItemType(typ) {
	case ItemDoc, "ref":
		id := str(m, "id")
		if id == "" {
			return nil, fmt.Errorf("%s: doc item without id", where)
		}
		return []Item{{Type: ItemDoc, ID: id, Label: str(m, "label")}}, nil
	case ItemCategory:
		it := Item{Type: ItemCategory, Label: str(m, "label")}
		if link, ok := m["link"].(map[string]any); ok && str(link, "type") == string(ItemDoc) {
			it.LinkID = str(link, "id")
		}
		if rawItems, ok := m["items"].([]any); ok {
			children, err := decodeItems(rawItems, where+".items")
			if err != nil {
				return nil, err
			}
			it.Items = children
		}
		return []Item{it}, nil
	case ItemLink:
		return []Item{{Type: ItemLink, Href: str(m, "href"), Label: str(m, "label")}}, nil
	case ItemAutogenerated:
		return []Item{{Type: ItemAutogenerated, DirName: str(m, "dirName")}}, nil
	case ItemHTML:
		return []Item{{Type: ItemHTML}}, nil
	default:
		return nil, fmt.Errorf("%s: unknown item type %q", where, typ)
	}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
