package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FeedFetches      *prometheus.CounterVec
	FeedDuration     *prometheus.HistogramVec
	RecordsSkipped   *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	SearchRequests   *prometheus.CounterVec
	GeneratedFlights prometheus.Counter
	CatalogSize      *prometheus.GaugeVec
}

// NewMetrics creates the service metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in main and prometheus.NewRegistry() in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FeedFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Upstream feed fetches by feed and outcome",
		}, []string{"feed", "outcome"}),
		FeedDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Time taken to fetch and normalize one upstream feed",
			Buckets:   prometheus.DefBuckets,
		}, []string{"feed"}),
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_records_skipped_total",
			Help:      "Malformed or incomplete upstream records dropped during normalization",
		}, []string{"feed"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_lookups_total",
			Help:      "Feed response cache lookups by result",
		}, []string{"feed", "result"}),
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests by kind and data source",
		}, []string{"kind", "source"}),
		GeneratedFlights: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_flights_total",
			Help:      "Flights fabricated by the fallback generator",
		}),
		CatalogSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Reference records in the current catalog snapshot",
		}, []string{"kind"}),
	}
}

// ObserveFetch records one feed fetch.
func (m *Metrics) ObserveFetch(feed, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.FeedFetches.WithLabelValues(feed, outcome).Inc()
	m.FeedDuration.WithLabelValues(feed).Observe(took.Seconds())
}

// AddSkipped counts records dropped by a feed's normalizer.
func (m *Metrics) AddSkipped(feed string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsSkipped.WithLabelValues(feed).Add(float64(n))
}

// CacheResult counts a cache hit or miss.
func (m *Metrics) CacheResult(feed string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(feed, result).Inc()
}

// CountSearch records a served search and where its data came from.
func (m *Metrics) CountSearch(kind, source string) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(kind, source).Inc()
}

// AddGenerated counts flights produced by the fallback generator.
func (m *Metrics) AddGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.GeneratedFlights.Add(float64(n))
}

// SetCatalogSize reports the size of the current catalog snapshot.
func (m *Metrics) SetCatalogSize(airports, airlines int) {
	if m == nil {
		return
	}
	m.CatalogSize.WithLabelValues("airports").Set(float64(airports))
	m.CatalogSize.WithLabelValues("airlines").Set(float64(airlines))
}
