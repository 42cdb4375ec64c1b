package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citruspi/badger/pkg/observability"
)

// Metrics holds the process-wide render counters. It implements
// observability.RenderHooks, so registering it with
// observability.SetRenderHooks makes every badge render count.
type Metrics struct {
	registry *prometheus.Registry

	renders  prometheus.Counter
	errors   prometheus.Counter
	duration prometheus.Histogram
	stages   *prometheus.HistogramVec
}

// NewMetrics creates the counters on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badge_renders",
			Help: "Badges rendered",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badge_render_errors",
			Help: "Failed badge renders",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "badge_render_duration_seconds",
			Help:    "Time spent rendering badges",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "badge_render_stage_duration_seconds",
			Help:    "Time spent in each render stage",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.renders, m.errors, m.duration, m.stages)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnRenderStart(context.Context) {
	m.renders.Inc()
}

func (m *Metrics) OnRenderComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		m.errors.Inc()
	}
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, _ error) {
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}

var _ observability.RenderHooks = (*Metrics)(nil)
