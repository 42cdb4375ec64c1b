package badge

import (
	"html"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/metrics"
)

// Measurer sizes a string in a given face and size. *metrics.DataSet
// implements it.
type Measurer interface {
	BoundingBox(text string, opts metrics.RenderOptions) (metrics.Box, bool)
}

// Layout holds the measured boxes of a badge. Text is nil when the request
// has no text segment.
type Layout struct {
	Title metrics.Box
	Text  *metrics.Box
}

// Measure sizes the title and, if present, the text of a normalized request.
//
// Strings are measured as they will be displayed, so the entity escapes
// added by normalization are undone first.
func Measure(req Request, m Measurer) (Layout, error) {
	if req.FontFace == nil || req.FontSize == nil {
		return Layout{}, errors.New(errors.ErrCodeLayoutFailed, "layout: request has no font")
	}
	opts := metrics.RenderOptions{Face: string(*req.FontFace), Size: string(*req.FontSize)}

	title, ok := m.BoundingBox(html.UnescapeString(req.Title), opts)
	if !ok {
		return Layout{}, errors.New(errors.ErrCodeLayoutFailed, "cannot measure title in %s %spx", opts.Face, opts.Size)
	}

	l := Layout{Title: title}
	if req.Text != nil {
		text, ok := m.BoundingBox(html.UnescapeString(*req.Text), opts)
		if !ok {
			return Layout{}, errors.New(errors.ErrCodeLayoutFailed, "cannot measure text in %s %spx", opts.Face, opts.Size)
		}
		l.Text = &text
	}
	return l, nil
}
