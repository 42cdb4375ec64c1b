package metrics

import (
	"bytes"
	"math"
	"strconv"
	"sync"

	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/fonts"
)

// DefaultSizes are the sizes measured when none are given. 11px matches the
// usual badge text size and is therefore the default.
var DefaultSizes = []string{"11", "12", "13", "14", "16", "18", "20", "24", "32"}

// DefaultCharset is printable ASCII followed by the Latin-1 supplement.
var DefaultCharset = func() string {
	var buf bytes.Buffer
	for r := rune(0x20); r <= 0x7e; r++ {
		buf.WriteRune(r)
	}
	for r := rune(0xa0); r <= 0xff; r++ {
		buf.WriteRune(r)
	}
	return buf.String()
}()

// dpi is fixed at 72 so that one point equals one SVG user unit.
const dpi = 72

// Source is a named font file. Data may be TTF, OTF, WOFF or WOFF2.
type Source struct {
	Name string
	Data []byte
}

// Build measures every source at every size over charset.
// Faces and sizes keep the order they are given in; the first of each
// becomes the dataset default.
func Build(sources []Source, sizes []string, charset string) (*DataSet, error) {
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "no font sources given")
	}
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	if charset == "" {
		charset = DefaultCharset
	}

	d := &DataSet{Tables: make(map[string]map[string]*Table, len(sources))}
	for _, src := range sources {
		f, err := parseFont(src.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse font %s", src.Name)
		}

		d.Tables[src.Name] = make(map[string]*Table, len(sizes))
		for _, size := range sizes {
			t, err := measure(f, size, charset)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "measure %s at %s", src.Name, size)
			}
			d.Tables[src.Name][size] = t
		}
		d.Config.Font.Faces = append(d.Config.Font.Faces, src.Name)
	}
	d.Config.Font.Sizes = append([]string(nil), sizes...)

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

var (
	builtinSet  *DataSet
	builtinErr  error
	builtinOnce sync.Once
)

// Builtin returns a dataset measured from the embedded Go fonts at
// [DefaultSizes]. The result is computed once and shared.
func Builtin() (*DataSet, error) {
	builtinOnce.Do(func() {
		var sources []Source
		for _, face := range fonts.BuiltinFaces() {
			data, _ := fonts.Builtin(face)
			sources = append(sources, Source{Name: face, Data: data})
		}
		builtinSet, builtinErr = Build(sources, DefaultSizes, DefaultCharset)
	})
	return builtinSet, builtinErr
}

// parseFont converts web fonts to SFNT before parsing.
func parseFont(data []byte) (*opentype.Font, error) {
	if isWebFont(data) {
		sfnt, err := tdfont.ToSFNT(data)
		if err != nil {
			return nil, err
		}
		data = sfnt
	}
	return opentype.Parse(data)
}

// isWebFont checks the WOFF ("wOFF") and WOFF2 ("wOF2") magic bytes.
func isWebFont(data []byte) bool {
	return bytes.HasPrefix(data, []byte("wOFF")) || bytes.HasPrefix(data, []byte("wOF2"))
}

func measure(f *opentype.Font, size, charset string) (*Table, error) {
	px, err := strconv.ParseFloat(size, 64)
	if err != nil || px <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "font size %q is not a positive number", size)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	m := face.Metrics()
	t := &Table{
		Ascent:   round(m.Ascent),
		Descent:  round(m.Descent),
		Advances: make(map[string]float64),
	}
	var buf sfnt.Buffer
	for _, r := range charset {
		// Index 0 is .notdef; GlyphAdvance would report its width as ok.
		if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
			continue
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		t.Advances[string(r)] = round(adv)
	}
	return t, nil
}

// round converts a 26.6 fixed-point value to pixels with two decimals.
func round(v fixed.Int26_6) float64 {
	return math.Round(float64(v)/64*100) / 100
}
