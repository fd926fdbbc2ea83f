package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryMetrics provides observability for the query engine.
//
// Implementations can collect metrics about listing evaluations and
// folder index rebuilds. This interface is optional - if not provided to
// the engine, a no-op implementation is used with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	queryMetrics := metrics.NewQueryMetrics()
//	engine := query.NewEngine(store, index, queryMetrics)
//
//	// Without metrics (no-op)
//	engine := query.NewEngine(store, index, nil)
type QueryMetrics interface {
	// RecordEvaluate records one completed evaluation.
	//
	// Parameters:
	//   - mode: "browse" or "search"
	//   - duration: Time taken to produce the result
	//   - results: Number of items in the result before pagination
	RecordEvaluate(mode string, duration time.Duration, results int)

	// RecordRebuild records one folder index rebuild.
	//
	// Parameters:
	//   - duration: Time taken to rebuild the tree
	//   - records: Number of records indexed
	//   - folders: Number of folders in the resulting tree
	RecordRebuild(duration time.Duration, records int, folders int)
}

// queryMetrics is the Prometheus implementation of QueryMetrics.
type queryMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	resultItems        *prometheus.HistogramVec
	rebuildsTotal      prometheus.Counter
	rebuildDuration    prometheus.Histogram
	indexedRecords     prometheus.Gauge
	indexedFolders     prometheus.Gauge
}

// NewQueryMetrics creates a new Prometheus-backed QueryMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewQueryMetrics() QueryMetrics {
	if !IsEnabled() {
		return &noopQueryMetrics{}
	}

	reg := GetRegistry()

	return &queryMetrics{
		evaluationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "blobnav_query_evaluations_total",
				Help: "Total number of query evaluations by mode",
			},
			[]string{"mode"},
		),
		evaluationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "blobnav_query_evaluation_duration_seconds",
				Help: "Duration of query evaluations in seconds",
				Buckets: []float64{
					0.0001, // 100µs
					0.0005, // 500µs
					0.001,  // 1ms
					0.005,  // 5ms
					0.01,   // 10ms
					0.05,   // 50ms
					0.1,    // 100ms
					0.25,   // 250ms
					0.5,    // 500ms
					1.0,    // 1s
					2.5,    // 2.5s
				},
			},
			[]string{"mode"},
		),
		resultItems: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blobnav_query_result_items",
				Help:    "Number of items returned per evaluation before pagination",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"mode"},
		),
		rebuildsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "blobnav_index_rebuilds_total",
				Help: "Total number of folder index rebuilds",
			},
		),
		rebuildDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "blobnav_index_rebuild_duration_seconds",
				Help: "Duration of folder index rebuilds in seconds",
				Buckets: []float64{
					0.001, // 1ms
					0.01,  // 10ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.5,   // 500ms
					1.0,   // 1s
					5.0,   // 5s
				},
			},
		),
		indexedRecords: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "blobnav_index_records",
				Help: "Number of records in the current folder index",
			},
		),
		indexedFolders: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "blobnav_index_folders",
				Help: "Number of folders in the current folder index",
			},
		),
	}
}

func (m *queryMetrics) RecordEvaluate(mode string, duration time.Duration, results int) {
	m.evaluationsTotal.WithLabelValues(mode).Inc()
	m.evaluationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.resultItems.WithLabelValues(mode).Observe(float64(results))
}

func (m *queryMetrics) RecordRebuild(duration time.Duration, records int, folders int) {
	m.rebuildsTotal.Inc()
	m.rebuildDuration.Observe(duration.Seconds())
	m.indexedRecords.Set(float64(records))
	m.indexedFolders.Set(float64(folders))
}

// noopQueryMetrics is a no-op implementation of QueryMetrics with zero overhead.
type noopQueryMetrics struct{}

func (noopQueryMetrics) RecordEvaluate(mode string, duration time.Duration, results int) {}
func (noopQueryMetrics) RecordRebuild(duration time.Duration, records int, folders int)  {}
