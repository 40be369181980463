package imgix

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RendersTotal counts the rendered URLs and source sets.
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgix",
			Name:      "renders_total",
			Help:      "Total number of render requests",
		},
		[]string{"kind", "status"},
	)

	// RenderDuration measures the time spent rendering, cache included.
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgix",
			Name:      "render_duration_seconds",
			Help:      "Duration of render requests in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"kind"},
	)
)

// RecordRender records a render request.
func RecordRender(kind, status string, duration float64) {
	RendersTotal.WithLabelValues(kind, status).Inc()
	RenderDuration.WithLabelValues(kind).Observe(duration)
}
