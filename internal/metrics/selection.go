package metrics

import "github.com/prometheus/client_golang/prometheus"

// Selection Prometheus metrics.
var (
	SelectionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segmentd",
			Name:      "selection_total",
			Help:      "Completed selections by winning source",
		},
		[]string{"source"}, // "personalized" / "global"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "segmentd",
			Name:      "search_duration_seconds",
			Help:      "Search executor duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"category", "status"},
	)

	TagRecheckDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segmentd",
			Name:      "tag_recheck_dropped_total",
			Help:      "Search hits dropped by the exact tag re-check",
		},
	)

	EntryLookupMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segmentd",
			Name:      "entry_lookup_misses_total",
			Help:      "Search hits whose entry was not found in the directory",
		},
	)
)

var selMetricsRegistered bool

// RegisterSelectionMetrics registers Prometheus selection metrics. Must be called once from main.
func RegisterSelectionMetrics() {
	if selMetricsRegistered {
		return
	}
	prometheus.MustRegister(SelectionTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(TagRecheckDroppedTotal)
	prometheus.MustRegister(EntryLookupMissesTotal)
	selMetricsRegistered = true
}
