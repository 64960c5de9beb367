// Package metrics exposes Prometheus collectors for the scraping pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapePagesTotal       *prometheus.CounterVec
	scrapeRecordsTotal     *prometheus.CounterVec
	fetchAttemptsTotal     *prometheus.CounterVec
	fetchDurationSeconds   *prometheus.HistogramVec
	enrichRecordsTotal     *prometheus.CounterVec
	cleanupRecordsTotal    prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_pages_total",
				Help: "Total number of result pages fetched, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapeRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_records_total",
				Help: "Total number of records processed, labeled by disposition.",
			},
			[]string{"disposition"},
		)

		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_fetch_attempts_total",
				Help: "Total number of fetch attempts, labeled by transport and outcome.",
			},
			[]string{"transport", "outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobradar_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies, labeled by transport.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"transport"},
		)

		enrichRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_enrich_records_total",
				Help: "Total number of records considered for geo enrichment, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		cleanupRecordsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "jobradar_cleanup_records_total",
				Help: "Total number of records removed by cleanup runs.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePages adds to the page counter for the given outcome.
func ObservePages(outcome string, n int) {
	if n > 0 {
		scrapePagesTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// ObserveRecords adds to the record counter for the given disposition.
func ObserveRecords(disposition string, n int) {
	if n > 0 {
		scrapeRecordsTotal.WithLabelValues(disposition).Add(float64(n))
	}
}

// ObserveFetchAttempt records one transport attempt and its latency.
func ObserveFetchAttempt(transport, outcome string, duration time.Duration) {
	fetchAttemptsTotal.WithLabelValues(transport, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(transport).Observe(duration.Seconds())
}

// ObserveEnrichment adds to the enrichment counter for the given outcome.
func ObserveEnrichment(outcome string, n int) {
	if n > 0 {
		enrichRecordsTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// ObserveCleanup adds to the cleanup removal counter.
func ObserveCleanup(n int64) {
	if n > 0 {
		cleanupRecordsTotal.Add(float64(n))
	}
}
