// Package badge implements badger's render pipeline: request normalization,
// text layout and SVG composition.
//
// # Pipeline
//
// A badge render runs three stages, each failing closed:
//
//  1. [Normalize]: fill defaults and validate a raw [Request]
//  2. [Measure]: size the title and text with precomputed glyph metrics
//  3. [Composer.Compose]: build a [RenderContext] and render the badge template
//
// [Factory] wires the stages together and turns any failure into an error
// badge via [Factory.RenderError], so callers always have an SVG to serve.
//
// # Usage
//
//	f, err := badge.NewFactory(badge.Options{DataSet: ds, Icons: catalog, Engine: engine})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := f.Render(ctx, badge.Request{Title: "build", Text: badge.String("passing")})
//	if err != nil {
//	    svg = f.RenderError(ctx, err)
//	}
//
// Registry, catalog, dataset and engine are read-only after startup, so a
// single Factory serves concurrent requests without locking.
package badge

import (
	"net/url"
	"strconv"

	"github.com/citruspi/badger/pkg/errors"
)

// FontFace names a font face of the metrics dataset.
type FontFace string

// FontSize is a font size of the metrics dataset, in pixels.
type FontSize string

// Request describes one badge. Optional fields are nil until normalization
// fills them in; after a successful [Normalize] every field except Text and
// the icon fields is set.
type Request struct {
	Title string
	Text  *string

	TitleColour   *string
	TitleBgColour *string
	TextColour    *string
	TextBgColour  *string

	FontFace *FontFace
	FontSize *FontSize

	PaddingHorizontal *float64
	PaddingVertical   *float64

	Icon       *string
	IconColour *string
	IconScale  *string
}

// HasText reports whether the request carries a text segment.
func (r *Request) HasText() bool { return r.Text != nil }

// HasIcon reports whether the request asks for an icon.
func (r *Request) HasIcon() bool { return r.Icon != nil }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Face returns a pointer to the font face s.
func Face(s string) *FontFace { f := FontFace(s); return &f }

// Size returns a pointer to the font size s.
func Size(s string) *FontSize { f := FontSize(s); return &f }

// Query parameter names, one per Request field.
const (
	ParamTitle             = "title"
	ParamText              = "text"
	ParamTitleColour       = "title_colour"
	ParamTitleBgColour     = "title_bg_colour"
	ParamTextColour        = "text_colour"
	ParamTextBgColour      = "text_bg_colour"
	ParamFontFace          = "font_face"
	ParamFontSize          = "font_size"
	ParamPaddingHorizontal = "padding_horizontal"
	ParamPaddingVertical   = "padding_vertical"
	ParamIcon              = "icon"
	ParamIconColour        = "icon_colour"
	ParamIconScale         = "icon_scale"
)

// FromQuery maps query parameters onto a raw Request. A parameter that is
// present but empty is kept as an empty value; only absent parameters stay
// nil. Padding values must parse as numbers.
func FromQuery(q url.Values) (Request, error) {
	req := Request{
		Title:         q.Get(ParamTitle),
		Text:          optional(q, ParamText),
		TitleColour:   optional(q, ParamTitleColour),
		TitleBgColour: optional(q, ParamTitleBgColour),
		TextColour:    optional(q, ParamTextColour),
		TextBgColour:  optional(q, ParamTextBgColour),
		Icon:          optional(q, ParamIcon),
		IconColour:    optional(q, ParamIconColour),
		IconScale:     optional(q, ParamIconScale),
	}
	if v := optional(q, ParamFontFace); v != nil {
		req.FontFace = Face(*v)
	}
	if v := optional(q, ParamFontSize); v != nil {
		req.FontSize = Size(*v)
	}

	var err error
	if req.PaddingHorizontal, err = optionalFloat(q, ParamPaddingHorizontal); err != nil {
		return Request{}, err
	}
	if req.PaddingVertical, err = optionalFloat(q, ParamPaddingVertical); err != nil {
		return Request{}, err
	}
	return req, nil
}

func optional(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	return String(q.Get(key))
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	s := optional(q, key)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %s", key, *s)
	}
	return &v, nil
}
