package config

import (
	"github.com/blobnav/blobnav/pkg/metrics"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// Query is the metrics collector for the query engine (never nil, uses noop if disabled)
	Query metrics.QueryMetrics

	// Loader is the metrics collector for the listing loader (never nil, uses noop if disabled)
	Loader metrics.LoaderMetrics
}

// InitializeMetrics creates and initializes all metrics components based on configuration.
//
// If metrics are enabled in the configuration:
//   - Initializes the global Prometheus registry
//   - Creates the metrics HTTP server
//   - Creates Prometheus-backed metrics instances for all components
//
// If metrics are disabled:
//   - Returns nil server
//   - Returns no-op metrics implementations (zero overhead)
//
// Parameters:
//   - cfg: Metrics configuration
//
// Returns:
//   - MetricsResult containing all metrics components
func InitializeMetrics(cfg *MetricsConfig) *MetricsResult {
	var server *metrics.Server

	if cfg.Enabled {
		// Initialize global Prometheus registry. The constructors below
		// hand out no-op implementations until this has happened.
		metrics.InitRegistry()

		server = metrics.NewServer(metrics.ServerConfig{
			Port: cfg.Port,
		})
	}

	return &MetricsResult{
		Server: server,
		Query:  metrics.NewQueryMetrics(),
		Loader: metrics.NewLoaderMetrics(),
	}
}
