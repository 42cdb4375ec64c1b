// Package icons provides the vector icon catalog badges can be prefixed with.
//
// Every icon is a single SVG path drawn in a 24x24 box. The default catalog
// is embedded in the binary; extra icons can be merged from a directory of
// SVG files with [Catalog.WithDir].
//
// A Catalog is immutable; WithDir returns a new one. Lookups are safe for
// concurrent use.
package icons

import (
	_ "embed"
	"encoding/json"
	"sort"

	"github.com/citruspi/badger/pkg/errors"
)

// ViewBox is the coordinate box every icon path is drawn in.
const ViewBox = 24.0

//go:embed icons.json
var defaultCatalog []byte

// Icon is a named vector path.
type Icon struct {
	Name  string `json:"-"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Catalog maps icon keys to icons.
type Catalog struct {
	icons map[string]Icon
}

// New creates a catalog from icons keyed by name.
func New(icons map[string]Icon) *Catalog {
	c := &Catalog{icons: make(map[string]Icon, len(icons))}
	for name, icon := range icons {
		icon.Name = name
		c.icons[name] = icon
	}
	return c
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	var icons map[string]Icon
	if err := json.Unmarshal(defaultCatalog, &icons); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode embedded icon catalog")
	}
	return New(icons), nil
}

// Lookup returns the icon registered under name.
func (c *Catalog) Lookup(name string) (Icon, bool) {
	icon, ok := c.icons[name]
	return icon, ok
}

// Names returns the sorted icon keys.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.icons))
	for name := range c.icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of icons.
func (c *Catalog) Len() int {
	return len(c.icons)
}
