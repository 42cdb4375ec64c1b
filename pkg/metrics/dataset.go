// Package metrics provides precomputed glyph metrics for badge layout.
//
// A [DataSet] lists the font faces and sizes badger is willing to render and
// stores, for every measured face/size pair, the advance width of each
// supported glyph along with the line ascent and descent. Text is measured
// by summing advances, so no font files are needed at request time.
//
// Datasets are produced by [Build] (or [Builtin] for the embedded Go fonts)
// and persisted as JSON with [DataSet.Write] and [Load].
//
// A DataSet is immutable once loaded and safe for concurrent use.
package metrics

import (
	"strconv"
	"unicode/utf8"

	"github.com/citruspi/badger/pkg/errors"
)

// DataSet holds glyph metrics for a set of font faces and sizes.
type DataSet struct {
	Config Config `json:"config"`

	// Tables maps face -> size -> glyph table.
	Tables map[string]map[string]*Table `json:"tables"`
}

// Config is the capability list of a dataset, in preference order.
type Config struct {
	Font FontConfig `json:"font"`
}

// FontConfig lists the supported faces and sizes.
type FontConfig struct {
	Faces []string `json:"faces"`
	Sizes []string `json:"sizes"`
}

// Table holds the metrics of one face at one size, in pixels.
type Table struct {
	Ascent   float64            `json:"ascent"`
	Descent  float64            `json:"descent"`
	Advances map[string]float64 `json:"advances"`

	runes map[rune]float64
}

// Box is the pixel size of a measured string.
type Box struct {
	Width  float64
	Height float64
}

// RenderOptions selects the face and size a string is measured in.
type RenderOptions struct {
	Face string
	Size string
}

// BoundingBox measures text in the given face and size.
// It returns false if the pair was never measured or if any rune of text has
// no glyph in the table.
func (d *DataSet) BoundingBox(text string, opts RenderOptions) (Box, bool) {
	t := d.table(opts.Face, opts.Size)
	if t == nil {
		return Box{}, false
	}

	var width float64
	for _, r := range text {
		adv, ok := t.runes[r]
		if !ok {
			return Box{}, false
		}
		width += adv
	}
	return Box{Width: width, Height: t.Ascent + t.Descent}, true
}

// Measured reports whether a glyph table exists for face and size.
func (d *DataSet) Measured(face, size string) bool {
	return d.table(face, size) != nil
}

func (d *DataSet) table(face, size string) *Table {
	sizes, ok := d.Tables[face]
	if !ok {
		return nil
	}
	return sizes[size]
}

// validate checks the dataset and builds the per-rune lookup tables.
func (d *DataSet) validate() error {
	if len(d.Config.Font.Faces) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "dataset lists no font faces")
	}
	if len(d.Config.Font.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "dataset lists no font sizes")
	}
	for _, size := range d.Config.Font.Sizes {
		v, err := strconv.ParseFloat(size, 64)
		if err != nil || v <= 0 {
			return errors.New(errors.ErrCodeInvalidDataset, "font size %q is not a positive number", size)
		}
	}
	if len(d.Tables) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "dataset has no glyph tables")
	}

	for face, sizes := range d.Tables {
		for size, t := range sizes {
			if t == nil {
				return errors.New(errors.ErrCodeInvalidDataset, "empty glyph table for %s/%s", face, size)
			}
			if err := t.index(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDataset, err, "glyph table %s/%s", face, size)
			}
		}
	}
	return nil
}

func (t *Table) index() error {
	t.runes = make(map[rune]float64, len(t.Advances))
	for key, adv := range t.Advances {
		r, n := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || n != len(key) {
			return errors.New(errors.ErrCodeInvalidDataset, "glyph key %q is not a single rune", key)
		}
		t.runes[r] = adv
	}
	return nil
}
