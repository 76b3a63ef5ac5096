package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profmatch",
			Name:      "match_requests_total",
			Help:      "Total number of match requests",
		},
		[]string{"status"}, // "success" / "error" / "empty"
	)

	MatchRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "profmatch",
			Name:      "match_request_duration_seconds",
			Help:      "Match request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CorpusSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "profmatch",
			Name:      "corpus_profiles",
			Help:      "Number of professor profiles in the current corpus snapshot",
		},
	)

	CorpusRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profmatch",
			Name:      "corpus_refresh_total",
			Help:      "Total corpus refresh attempts",
		},
		[]string{"status"}, // "success" / "error"
	)

	RationaleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profmatch",
			Name:      "rationale_total",
			Help:      "Total rationale generation attempts",
		},
		[]string{"status"}, // "success" / "error"
	)
)

var matchMetricsRegistered bool

// RegisterMatchingMetrics registers Prometheus matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchRequestDuration)
	prometheus.MustRegister(CorpusSize)
	prometheus.MustRegister(CorpusRefreshTotal)
	prometheus.MustRegister(RationaleTotal)
	matchMetricsRegistered = true
}
