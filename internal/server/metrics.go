package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RendersStarted   prometheus.Counter
	RendersCompleted prometheus.Counter
	RendersFailed    prometheus.Counter
	RenderDuration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RendersStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "glitchr_renders_started_total",
			Help: "Number of render jobs started.",
		}),
		RendersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "glitchr_renders_completed_total",
			Help: "Number of render jobs completed successfully.",
		}),
		RendersFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "glitchr_renders_failed_total",
			Help: "Number of render jobs that failed.",
		}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "glitchr_render_duration_seconds",
			Help:    "Wall-clock duration of render jobs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}
