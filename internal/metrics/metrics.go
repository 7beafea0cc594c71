package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
// Using promauto automatically registers metrics with the default registry

var (
	// ==================== HTTP METRICS ====================

	// HTTPRequestDuration tracks the duration of HTTP requests
	// Histogram allows us to calculate percentiles (P50, P95, P99)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts total HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsInFlight tracks currently processing requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// ==================== CACHE METRICS ====================

	// CacheHitsTotal counts document cache hits
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of document cache hits",
		},
	)

	// CacheMissesTotal counts document cache misses
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of document cache misses",
		},
	)

	// CacheOperationDuration tracks cache operation latency
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
		},
		[]string{"operation"}, // get, set, delete
	)

	// GeoCacheHitsTotal counts geolocation cache hits
	GeoCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_hits_total",
			Help: "Total number of geolocation cache hits",
		},
	)

	// GeoCacheMissesTotal counts geolocation cache misses
	GeoCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_misses_total",
			Help: "Total number of geolocation cache misses",
		},
	)

	// ==================== BUSINESS METRICS ====================

	// DocumentsCreatedTotal counts documents created via the generate flow
	DocumentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "documents_created_total",
			Help: "Total number of trackable documents created",
		},
	)

	// AccessesRecordedTotal counts access-log rows by type (view/download)
	AccessesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accesses_recorded_total",
			Help: "Total number of document access events recorded",
		},
		[]string{"type"},
	)

	// AccessRecordFailuresTotal counts best-effort log writes that failed.
	// These never surface to the visitor, so this counter is the only
	// place the loss is visible.
	AccessRecordFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_record_failures_total",
			Help: "Total number of access-log writes that failed",
		},
	)

	// PDFRendersTotal counts PDFs rendered on download
	PDFRendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_renders_total",
			Help: "Total number of PDF documents rendered",
		},
	)

	// GeoLookupsTotal counts geolocation provider calls by outcome
	GeoLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_lookups_total",
			Help: "Total number of geolocation provider lookups",
		},
		[]string{"provider", "outcome"}, // outcome: success, error
	)

	// ==================== DATABASE METRICS ====================

	// DatabaseQueryDuration tracks database query latency
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"}, // create, get, list, increment
	)

	// DatabaseErrorsTotal counts database errors
	DatabaseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"operation"},
	)
)

// RecordCacheHit increments document cache hit counter
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss increments document cache miss counter
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordGeoCacheHit increments geolocation cache hit counter
func RecordGeoCacheHit() {
	GeoCacheHitsTotal.Inc()
}

// RecordGeoCacheMiss increments geolocation cache miss counter
func RecordGeoCacheMiss() {
	GeoCacheMissesTotal.Inc()
}

// RecordDocumentCreated increments document creation counter
func RecordDocumentCreated() {
	DocumentsCreatedTotal.Inc()
}

// RecordAccess increments the access counter for the given type
func RecordAccess(accessType string) {
	AccessesRecordedTotal.WithLabelValues(accessType).Inc()
}

// RecordAccessFailure increments the failed-log-write counter
func RecordAccessFailure() {
	AccessRecordFailuresTotal.Inc()
}

// RecordPDFRender increments the PDF render counter
func RecordPDFRender() {
	PDFRendersTotal.Inc()
}

// RecordGeoLookup increments the provider lookup counter
func RecordGeoLookup(provider, outcome string) {
	GeoLookupsTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveQuery records the duration of one database operation and
// counts it as an error when err is non-nil
func ObserveQuery(operation string, start time.Time, err error) {
	DatabaseQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DatabaseErrorsTotal.WithLabelValues(operation).Inc()
	}
}
