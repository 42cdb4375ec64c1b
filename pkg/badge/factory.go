package badge

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/icons"
	"github.com/citruspi/badger/pkg/metrics"
	"github.com/citruspi/badger/pkg/observability"
	"github.com/citruspi/badger/pkg/template"
)

// Error badge constants.
const (
	ErrorTitle         = "error"
	ErrorTitleBgColour = "#e05d44"

	// FallbackMessage replaces an error message that itself cannot be
	// rendered, for example because it contains glyphs the dataset lacks.
	FallbackMessage = "render failed"
)

// Options configures a Factory.
type Options struct {
	// DataSet supplies the font registry and glyph metrics. Required.
	DataSet *metrics.DataSet

	// Icons is the icon catalog. Defaults to the embedded catalog.
	Icons *icons.Catalog

	// Engine renders the badge template. Defaults to the embedded liquid
	// template.
	Engine template.Engine

	// Logger receives render diagnostics. Defaults to discarding them.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.DataSet == nil {
		return errors.New(errors.ErrCodeInvalidDataset, "metrics dataset is required")
	}
	if o.Icons == nil {
		c, err := icons.Default()
		if err != nil {
			return err
		}
		o.Icons = c
	}
	if o.Engine == nil {
		l, err := template.Default()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "load badge template")
		}
		o.Engine = l
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// Factory renders badges. It is immutable after construction and safe for
// concurrent use.
type Factory struct {
	registry *Registry
	measurer Measurer
	catalog  IconCatalog
	composer *Composer
	logger   *log.Logger
}

// NewFactory builds a factory and verifies that the fallback error badge
// renders, so [Factory.RenderError] cannot fail once startup succeeds.
func NewFactory(opts Options) (*Factory, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	reg, err := NewRegistry(opts.DataSet.Config.Font)
	if err != nil {
		return nil, err
	}

	f := &Factory{
		registry: reg,
		measurer: opts.DataSet,
		catalog:  opts.Icons,
		composer: NewComposer(opts.Engine, opts.Icons, opts.Logger),
		logger:   opts.Logger,
	}

	if _, err := f.renderErrorBadge(FallbackMessage); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err,
			"fallback error badge does not render in %s %spx", reg.DefaultFace(), reg.DefaultSize())
	}
	return f, nil
}

// Registry returns the font registry.
func (f *Factory) Registry() *Registry { return f.registry }

// Icons returns the icon catalog.
func (f *Factory) Icons() IconCatalog { return f.catalog }

// Render runs the full pipeline for req and reports the attempt and each
// stage to the registered render hooks.
func (f *Factory) Render(ctx context.Context, req Request) (svg string, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, time.Since(start), err)
	}()

	stageStart := time.Now()
	normalized, err := Normalize(req, f.registry, f.catalog)
	hooks.OnStageComplete(ctx, observability.StageNormalize, time.Since(stageStart), err)
	if err != nil {
		return "", err
	}

	stageStart = time.Now()
	layout, err := Measure(normalized, f.measurer)
	hooks.OnStageComplete(ctx, observability.StageMeasure, time.Since(stageStart), err)
	if err != nil {
		return "", err
	}

	stageStart = time.Now()
	svg, err = f.composer.Compose(normalized, layout)
	hooks.OnStageComplete(ctx, observability.StageCompose, time.Since(stageStart), err)
	if err != nil {
		return "", err
	}

	f.logger.Debug("rendered badge", "title", normalized.Title, "face", *normalized.FontFace,
		"size", *normalized.FontSize, "duration", time.Since(start))
	return svg, nil
}

// RenderError renders an error badge for err: the title "error" on a red
// background followed by the error's user message. When the message cannot
// be rendered, [FallbackMessage] is shown instead.
//
// RenderError is not reported to the render hooks.
func (f *Factory) RenderError(ctx context.Context, err error) string {
	msg := errors.UserMessage(err)

	svg, rerr := f.renderErrorBadge(msg)
	if rerr == nil {
		return svg
	}
	f.logger.Warn("error badge failed, using fallback", "message", msg, "err", rerr)

	svg, rerr = f.renderErrorBadge(FallbackMessage)
	if rerr != nil {
		// Verified by NewFactory; reaching this means the factory's
		// read-only state was corrupted.
		panic(fmt.Sprintf("badge: fallback error badge failed: %v", rerr))
	}
	return svg
}

func (f *Factory) renderErrorBadge(msg string) (string, error) {
	req := Request{
		Title:         ErrorTitle,
		Text:          String(msg),
		TitleBgColour: String(ErrorTitleBgColour),
	}

	normalized, err := Normalize(req, f.registry, f.catalog)
	if err != nil {
		return "", err
	}
	layout, err := Measure(normalized, f.measurer)
	if err != nil {
		return "", err
	}
	return f.composer.Compose(normalized, layout)
}
