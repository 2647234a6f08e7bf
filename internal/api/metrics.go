package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ruslano69/launchdash/pkg/charts"
)

var (
	// chartBuildsTotal counts chart specifications built per output.
	chartBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdash_chart_builds_total",
			Help: "Total number of chart specifications built",
		},
		[]string{"output"},
	)

	// chartPoints tracks the size of the last spec built per output (slices or points).
	chartPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "launchdash_chart_points",
			Help: "Number of slices or points in the last chart built per output",
		},
		[]string{"output"},
	)

	// renderDuration measures image rendering time, cache hits excluded.
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launchdash_render_duration_seconds",
			Help:    "Time spent rendering chart images",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	// renderCacheTotal counts render cache lookups by result (hit, miss, error).
	renderCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdash_render_cache_total",
			Help: "Render cache lookups by result",
		},
		[]string{"result"},
	)
)

func observeSpec(spec charts.ChartSpec) {
	chartBuildsTotal.WithLabelValues(spec.Output).Inc()
	chartPoints.WithLabelValues(spec.Output).Set(float64(len(spec.Slices) + len(spec.Points)))
}

// registerOutputs exports zero-valued build series for every output, so
// dashboards see each chart before its first build.
func registerOutputs(outputs []string) {
	for _, o := range outputs {
		chartBuildsTotal.WithLabelValues(o)
		chartPoints.WithLabelValues(o)
	}
}
