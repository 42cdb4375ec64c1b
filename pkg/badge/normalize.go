package badge

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/icons"
)

// Default colours, in CSS hex notation.
const (
	DefaultTitleColour   = "#fff"
	DefaultTitleBgColour = "#000"
	DefaultTextColour    = "#000"
	DefaultTextBgColour  = "#fff"
)

// DefaultIconScale is the icon size relative to the text height.
const DefaultIconScale = "0.9"

// IconCatalog resolves icon keys to vector paths.
type IconCatalog interface {
	Lookup(name string) (icons.Icon, bool)
	Names() []string
}

// Normalize fills in defaults and validates req. Stages run in order (font,
// colours, padding, icon, sanitize) and the first failure is returned with a
// zero Request.
//
// The receiver's pointers are never written through, so the caller's
// request is left untouched.
func Normalize(req Request, reg *Registry, catalog IconCatalog) (Request, error) {
	stages := []func(*Request) error{
		func(r *Request) error { return r.populateFont(reg) },
		func(r *Request) error { return r.populateColours() },
		func(r *Request) error { return r.populatePadding() },
		func(r *Request) error { return r.populateIcon(catalog) },
		func(r *Request) error { r.sanitize(); return nil },
	}

	for _, stage := range stages {
		if err := stage(&req); err != nil {
			return Request{}, err
		}
	}
	return req, nil
}

func (r *Request) populateFont(reg *Registry) error {
	if r.FontFace == nil {
		r.FontFace = Face(string(reg.DefaultFace()))
	}
	if r.FontSize == nil {
		r.FontSize = Size(string(reg.DefaultSize()))
	}
	if !reg.Supports(*r.FontFace, *r.FontSize) {
		return errors.New(errors.ErrCodeUnsupportedFont, "unsupported font: %s %spx", *r.FontFace, *r.FontSize)
	}
	return nil
}

func (r *Request) populateColours() error {
	if r.TitleColour == nil {
		r.TitleColour = String(DefaultTitleColour)
	}
	if r.TitleBgColour == nil {
		r.TitleBgColour = String(DefaultTitleBgColour)
	}
	if r.TextColour == nil {
		r.TextColour = String(DefaultTextColour)
	}
	if r.TextBgColour == nil {
		r.TextBgColour = String(DefaultTextBgColour)
	}
	if r.Icon != nil && r.IconColour == nil {
		r.IconColour = String(*r.TitleColour)
	}

	for _, c := range []*string{r.TitleColour, r.TitleBgColour, r.TextColour, r.TextBgColour, r.IconColour} {
		if c != nil && !strings.HasPrefix(*c, "#") {
			return errors.New(errors.ErrCodeInvalidColour, "invalid colour: %s", *c)
		}
	}
	return nil
}

func (r *Request) populatePadding() error {
	if r.PaddingHorizontal != nil && r.PaddingVertical != nil {
		return nil
	}

	size, err := strconv.ParseFloat(string(*r.FontSize), 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnsupportedFont, err, "unsupported font size: %s", *r.FontSize)
	}
	if r.PaddingHorizontal == nil {
		r.PaddingHorizontal = Float(size / 2)
	}
	if r.PaddingVertical == nil {
		r.PaddingVertical = Float(size / 8)
	}
	return nil
}

func (r *Request) populateIcon(catalog IconCatalog) error {
	if r.Icon == nil {
		return nil
	}
	if _, ok := catalog.Lookup(*r.Icon); !ok {
		return errors.New(errors.ErrCodeInvalidIcon, "invalid icon: %s", *r.Icon)
	}

	if r.IconScale == nil {
		r.IconScale = String(DefaultIconScale)
	}
	if v, err := strconv.ParseFloat(*r.IconScale, 64); err != nil || v <= 0 {
		return errors.New(errors.ErrCodeInvalidIcon, "invalid icon scale: %s", *r.IconScale)
	}
	return nil
}

// sanitize entity-encodes the user supplied strings. It runs last so that
// every earlier stage sees the values as the user sent them.
func (r *Request) sanitize() {
	r.Title = escapeMarkup(r.Title)
	if r.Text != nil {
		r.Text = String(escapeMarkup(*r.Text))
	}
}

func escapeMarkup(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
