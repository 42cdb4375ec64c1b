// Package server exposes the badge factory over HTTP.
//
// Routes:
//
//	GET /              index page listing the supported fonts and icons
//	GET /v1/badge.svg  render a badge from query parameters
//	GET /metrics       prometheus exposition of the render counters
//	GET /healthz       liveness probe
//
// The badge route always answers 200 with an SVG body. Request problems are
// reported on an error badge rather than through the status code, so badge
// embeds never show a broken image.
package server

import (
	_ "embed"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/citruspi/badger/pkg/badge"
	"github.com/citruspi/badger/pkg/buildinfo"
	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/observability"
	"github.com/citruspi/badger/pkg/template"
)

// Route paths.
const (
	IndexPath   = "/"
	BadgePath   = "/v1/badge.svg"
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// ContentTypeSVG is sent with every badge.
const ContentTypeSVG = "image/svg+xml;charset=utf-8"

const indexTemplate = "index"

//go:embed assets/index.html
var indexSource string

// Server serves badges from a Factory.
type Server struct {
	factory *badge.Factory
	metrics *Metrics
	logger  *log.Logger
	index   string
}

// New prepares a server. The index page is rendered once here, since
// nothing it shows changes at runtime.
func New(factory *badge.Factory, metrics *Metrics, logger *log.Logger) (*Server, error) {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	index, err := renderIndex(factory)
	if err != nil {
		return nil, err
	}
	return &Server{factory: factory, metrics: metrics, logger: logger, index: index}, nil
}

// Handler returns the router with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		RequestID,
		middleware.RealIP,
		Logger(s.logger),
		middleware.Recoverer,
	)

	r.Get(IndexPath, s.handleIndex)
	r.Get(BadgePath, s.handleBadge)
	r.Method(http.MethodGet, MetricsPath, s.metrics.Handler())
	r.Get(HealthPath, s.handleHealth)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, s.index)
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	svg, err := s.render(r)
	if err != nil {
		s.logger.Debug("badge render failed",
			"code", errors.GetCode(err),
			"err", err,
			"request_id", RequestIDFromContext(ctx),
		)
		svg = s.factory.RenderError(ctx, err)
	}

	w.Header().Set("Content-Type", ContentTypeSVG)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, svg)
}

func (s *Server) render(r *http.Request) (string, error) {
	ctx := r.Context()

	req, err := badge.FromQuery(r.URL.Query())
	if err != nil {
		// The factory never sees this request, so count it here.
		hooks := observability.Render()
		hooks.OnRenderStart(ctx)
		hooks.OnRenderComplete(ctx, 0, err)
		return "", err
	}
	return s.factory.Render(ctx, req)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func renderIndex(f *badge.Factory) (string, error) {
	engine, err := template.NewLiquid(map[string]string{indexTemplate: indexSource})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "parse index page")
	}

	reg := f.Registry()
	faces := make([]string, 0, len(reg.Faces()))
	for _, face := range reg.Faces() {
		faces = append(faces, string(face))
	}
	sizes := make([]string, 0, len(reg.Sizes()))
	for _, size := range reg.Sizes() {
		sizes = append(sizes, string(size))
	}

	out, err := engine.Render(indexTemplate, map[string]any{
		"font_faces":        faces,
		"font_sizes":        sizes,
		"default_font_face": string(reg.DefaultFace()),
		"default_font_size": string(reg.DefaultSize()),
		"icons":             f.Icons().Names(),
		"render_endpoint":   BadgePath,
		"version":           buildinfo.Version,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render index page")
	}
	return out, nil
}
