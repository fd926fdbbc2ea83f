package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoaderMetrics provides observability for listing acquisition.
//
// Implementations can collect metrics about source fetches and listing
// cache lookups. This interface is optional - if not provided to the
// loader, a no-op implementation is used with zero overhead.
type LoaderMetrics interface {
	// RecordFetch records one listing fetch against a source.
	//
	// Parameters:
	//   - source: Source type (e.g., "azure", "s3", "file")
	//   - duration: Time taken by the fetch
	//   - err: Error if the fetch failed, nil if successful
	RecordFetch(source string, duration time.Duration, err error)

	// RecordCacheLookup records one listing cache lookup.
	//
	// Parameters:
	//   - hit: Whether a fresh cached listing was found
	RecordCacheLookup(hit bool)

	// RecordRecords records the number of records obtained from the
	// last successful load.
	RecordRecords(count int)
}

// loaderMetrics is the Prometheus implementation of LoaderMetrics.
type loaderMetrics struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	loadedRecords prometheus.Gauge
}

// NewLoaderMetrics creates a new Prometheus-backed LoaderMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewLoaderMetrics() LoaderMetrics {
	if !IsEnabled() {
		return &noopLoaderMetrics{}
	}

	reg := GetRegistry()

	return &loaderMetrics{
		fetchesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "blobnav_loader_fetches_total",
				Help: "Total number of listing fetches by source and status",
			},
			[]string{"source", "status"},
		),
		fetchDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "blobnav_loader_fetch_duration_seconds",
				Help: "Duration of listing fetches in seconds",
				Buckets: []float64{
					0.05, // 50ms
					0.1,  // 100ms
					0.5,  // 500ms
					1.0,  // 1s
					5.0,  // 5s
					10.0, // 10s
					30.0, // 30s
					60.0, // 1m
				},
			},
			[]string{"source"},
		),
		cacheLookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "blobnav_listing_cache_lookups_total",
				Help: "Total number of listing cache lookups by result",
			},
			[]string{"result"}, // hit or miss
		),
		loadedRecords: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "blobnav_loader_records",
				Help: "Number of records obtained by the last successful load",
			},
		),
	}
}

func (m *loaderMetrics) RecordFetch(source string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.fetchesTotal.WithLabelValues(source, status).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *loaderMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *loaderMetrics) RecordRecords(count int) {
	m.loadedRecords.Set(float64(count))
}

// noopLoaderMetrics is a no-op implementation of LoaderMetrics with zero overhead.
type noopLoaderMetrics struct{}

func (noopLoaderMetrics) RecordFetch(source string, duration time.Duration, err error) {}
func (noopLoaderMetrics) RecordCacheLookup(hit bool)                                   {}
func (noopLoaderMetrics) RecordRecords(count int)                                      {}
