package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kensaku",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "cache"}, // cache: "hit" / "miss"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kensaku",
			Name:      "search_duration_seconds",
			Help:      "Full search pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RegionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kensaku",
			Name:      "region_failures_total",
			Help:      "Region index executions that failed and were absorbed",
		},
		[]string{"region"},
	)

	CacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kensaku",
			Name:      "result_cache_entries",
			Help:      "Current number of cached grouped results",
		},
	)

	SearchLogDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kensaku",
			Name:      "search_log_drops_total",
			Help:      "Search log entries dropped because the logger failed",
		},
	)
)

// RegisterSearchMetrics registers search metrics explicitly (no init()).
func RegisterSearchMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(RegionFailuresTotal)
	prometheus.MustRegister(CacheEntries)
	prometheus.MustRegister(SearchLogDropsTotal)
}
