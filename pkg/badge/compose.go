package badge

import (
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/fonts"
	"github.com/citruspi/badger/pkg/icons"
	"github.com/citruspi/badger/pkg/template"
)

// RenderContext is the flat set of values the badge template is rendered
// with. Geometry fields are derived from the layout by [NewRenderContext].
type RenderContext struct {
	Title       string
	TitleWidth  float64
	TitleHeight float64

	FontFace   FontFace
	FontSize   FontSize
	FontFamily string

	TitleColour   string
	TitleBgColour string
	TextColour    string
	TextBgColour  string

	PaddingHorizontal float64
	PaddingVertical   float64

	Width             float64
	Height            float64
	TitleSegmentWidth float64
	TitleX            float64
	TextY             float64

	// Text is nil when the badge has no text segment.
	Text *TextContext
	// Icon is nil when the badge has no icon.
	Icon *IconContext
}

// TextContext describes the text segment.
type TextContext struct {
	Text         string
	Width        float64
	Height       float64
	SegmentWidth float64
	X            float64
}

// IconContext describes the icon drawn at the start of the title segment.
type IconContext struct {
	Name   string
	Path   string
	Colour string
	Scale  string
	X      float64
	Y      float64
	Size   float64
}

// NewRenderContext lays out a normalized request. The badge is a title
// segment, optionally led by the icon, followed by the text segment:
//
//	| ph [icon ph/2] title ph | ph text ph |
//
// Height is the taller of the two boxes plus vertical padding on both sides.
func NewRenderContext(req Request, layout Layout, icon *icons.Icon) RenderContext {
	ph, pv := *req.PaddingHorizontal, *req.PaddingVertical

	content := layout.Title.Height
	if layout.Text != nil {
		content = max(content, layout.Text.Height)
	}

	c := RenderContext{
		Title:             req.Title,
		TitleWidth:        layout.Title.Width,
		TitleHeight:       layout.Title.Height,
		FontFace:          *req.FontFace,
		FontSize:          *req.FontSize,
		FontFamily:        fonts.CSSFamily(string(*req.FontFace)),
		TitleColour:       *req.TitleColour,
		TitleBgColour:     *req.TitleBgColour,
		TextColour:        *req.TextColour,
		TextBgColour:      *req.TextBgColour,
		PaddingHorizontal: ph,
		PaddingVertical:   pv,
		Height:            content + 2*pv,
		TitleX:            ph,
	}
	c.TextY = c.Height / 2

	if icon != nil && req.Icon != nil {
		scale, _ := strconv.ParseFloat(*req.IconScale, 64)
		size := content * scale
		c.Icon = &IconContext{
			Name:   *req.Icon,
			Path:   icon.Path,
			Colour: *req.IconColour,
			Scale:  *req.IconScale,
			X:      ph,
			Y:      (c.Height - size) / 2,
			Size:   size,
		}
		c.TitleX += size + ph/2
	}

	c.TitleSegmentWidth = c.TitleX + layout.Title.Width + ph
	c.Width = c.TitleSegmentWidth

	if layout.Text != nil && req.Text != nil {
		c.Text = &TextContext{
			Text:         *req.Text,
			Width:        layout.Text.Width,
			Height:       layout.Text.Height,
			SegmentWidth: ph + layout.Text.Width + ph,
			X:            c.TitleSegmentWidth + ph,
		}
		c.Width += c.Text.SegmentWidth
	}
	return c
}

// Bindings flattens the context into template variables. Numbers are
// pre-formatted with at most two decimals. contains_text and contains_icon
// gate the optional segments; their fields are only bound when present.
func (c RenderContext) Bindings() map[string]any {
	b := map[string]any{
		"title":               c.Title,
		"title_width":         num(c.TitleWidth),
		"title_height":        num(c.TitleHeight),
		"font_face":           string(c.FontFace),
		"font_size":           string(c.FontSize),
		"font_family":         c.FontFamily,
		"title_colour":        c.TitleColour,
		"title_bg_colour":     c.TitleBgColour,
		"text_colour":         c.TextColour,
		"text_bg_colour":      c.TextBgColour,
		"padding_horizontal":  num(c.PaddingHorizontal),
		"padding_vertical":    num(c.PaddingVertical),
		"width":               num(c.Width),
		"height":              num(c.Height),
		"title_segment_width": num(c.TitleSegmentWidth),
		"title_x":             num(c.TitleX),
		"text_y":              num(c.TextY),
		"contains_text":       c.Text != nil,
		"contains_icon":       c.Icon != nil,
	}

	if t := c.Text; t != nil {
		b["text"] = t.Text
		b["text_width"] = num(t.Width)
		b["text_height"] = num(t.Height)
		b["text_segment_width"] = num(t.SegmentWidth)
		b["text_x"] = num(t.X)
	}

	if i := c.Icon; i != nil {
		b["icon"] = i.Name
		b["icon_path"] = i.Path
		b["icon_colour"] = i.Colour
		b["icon_scale"] = i.Scale
		b["icon_x"] = num(i.X)
		b["icon_y"] = num(i.Y)
		b["icon_size"] = num(i.Size)
		b["icon_ratio"] = num(i.Size / icons.ViewBox)
	}
	return b
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Composer renders badge templates.
type Composer struct {
	engine  template.Engine
	catalog IconCatalog
	logger  *log.Logger
}

// NewComposer returns a composer rendering through engine. A nil logger
// discards engine failures.
func NewComposer(engine template.Engine, catalog IconCatalog, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Composer{engine: engine, catalog: catalog, logger: logger}
}

// Compose renders a normalized, measured request. Engine failures are
// logged with their detail and reported as RENDER_FAILED.
func (c *Composer) Compose(req Request, layout Layout) (string, error) {
	var icon *icons.Icon
	if req.Icon != nil {
		found, ok := c.catalog.Lookup(*req.Icon)
		if !ok {
			return "", errors.New(errors.ErrCodeInvalidIcon, "invalid icon: %s", *req.Icon)
		}
		icon = &found
	}

	out, err := c.engine.Render(template.Badge, NewRenderContext(req, layout, icon).Bindings())
	if err != nil {
		c.logger.Error("badge template failed", "err", err)
		return "", errors.Wrap(errors.ErrCodeRenderFailed, err, "render failed")
	}
	return out, nil
}
