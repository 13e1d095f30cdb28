package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is the set of metrics exported on /metrics
type PrometheusMetrics struct {
	idsDiscovered prometheus.Counter
	pagesFetched  prometheus.Counter
	enriched      prometheus.Counter
	skipped       prometheus.Counter
	failed        prometheus.Counter
	rotations     prometheus.Counter
}

func newPrometheusMetrics(prefix string) *PrometheusMetrics {
	return &PrometheusMetrics{
		idsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "ids_discovered",
			Help: "Total number of unique listing IDs discovered",
		}),
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "pages_fetched",
			Help: "Total number of search pages fetched",
		}),
		enriched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "listings_enriched",
			Help: "Total number of listings successfully enriched",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "listings_skipped",
			Help: "Total number of listings gone upstream",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "listings_failed",
			Help: "Total number of listings that exhausted their retries",
		}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "fingerprint_rotations",
			Help: "Total number of outbound identity rotations",
		}),
	}
}

func (m *PrometheusMetrics) register() {
	prometheus.MustRegister(m.idsDiscovered)
	prometheus.MustRegister(m.pagesFetched)
	prometheus.MustRegister(m.enriched)
	prometheus.MustRegister(m.skipped)
	prometheus.MustRegister(m.failed)
	prometheus.MustRegister(m.rotations)
}
