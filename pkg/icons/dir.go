package icons

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/citruspi/badger/pkg/errors"
)

// svgPattern matches icon files at any depth below the catalog directory.
const svgPattern = "**/*.svg"

// WithDir returns a catalog containing c's icons plus every SVG file found
// below dir. The key of a file icon is its lowercase base name without
// extension; file icons replace embedded icons of the same key.
func (c *Catalog) WithDir(dir string) (*Catalog, error) {
	return c.WithFS(os.DirFS(dir))
}

// WithFS is WithDir over an arbitrary file system.
func (c *Catalog) WithFS(fsys fs.FS) (*Catalog, error) {
	matches, err := doublestar.Glob(fsys, svgPattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "scan icon directory")
	}

	merged := make(map[string]Icon, len(c.icons)+len(matches))
	for name, icon := range c.icons {
		merged[name] = icon
	}

	for _, file := range matches {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read icon %s", file)
		}
		d, err := pathData(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parse icon %s", file)
		}
		if d == "" {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "icon %s has no path data", file)
		}

		name := strings.ToLower(strings.TrimSuffix(path.Base(file), path.Ext(file)))
		merged[name] = Icon{Title: iconTitle(data, name), Path: d}
	}

	return New(merged), nil
}

// pathData joins the d attributes of every <path> element in an SVG file.
func pathData(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var parts []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}
		for _, attr := range el.Attr {
			if attr.Name.Local == "d" && attr.Value != "" {
				parts = append(parts, attr.Value)
			}
		}
	}
	return strings.Join(parts, " "), nil
}

// iconTitle returns the text of the first <title> element, or fallback.
func iconTitle(data []byte, fallback string) string {
	var doc struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil || doc.Title == "" {
		return fallback
	}
	return strings.TrimSpace(doc.Title)
}
