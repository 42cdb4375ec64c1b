// Package template renders named markup templates from a key/value context.
//
// The badge composer depends only on the [Engine] interface so tests can
// substitute their own engine. [Liquid] is the production implementation;
// it parses every template once when constructed, so syntax errors surface
// at startup rather than per request.
package template

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/osteele/liquid"
)

// Badge is the name of the badge template.
const Badge = "badge"

//go:embed badge.svg.liquid
var badgeSource string

// BadgeSource returns the embedded badge template text.
func BadgeSource() string {
	return badgeSource
}

// Engine renders a named template with the given context.
type Engine interface {
	Render(name string, ctx map[string]any) (string, error)
}

// Liquid is an Engine backed by pre-parsed liquid templates.
// It is safe for concurrent use.
type Liquid struct {
	templates map[string]*liquid.Template
}

// NewLiquid parses sources, keyed by template name.
func NewLiquid(sources map[string]string) (*Liquid, error) {
	engine := liquid.NewEngine()

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	l := &Liquid{templates: make(map[string]*liquid.Template, len(sources))}
	for _, name := range names {
		tpl, err := engine.ParseString(sources[name])
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", name, err)
		}
		l.templates[name] = tpl
	}
	return l, nil
}

// Default returns an engine holding the embedded badge template.
func Default() (*Liquid, error) {
	return NewLiquid(map[string]string{Badge: badgeSource})
}

// Render implements Engine.
func (l *Liquid) Render(name string, ctx map[string]any) (string, error) {
	tpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	out, err := tpl.RenderString(liquid.Bindings(ctx))
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return out, nil
}

var _ Engine = (*Liquid)(nil)
