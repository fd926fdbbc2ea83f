package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/blobnav/blobnav/pkg/pager"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Source-specific defaults are handled by source implementations
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applySourceDefaults(&cfg.Source)
	applyCacheDefaults(&cfg.Cache)
	applyRefreshDefaults(&cfg.Refresh)
	applyMetricsDefaults(&cfg.Metrics)
	applyUIDefaults(&cfg.UI)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.File == "" {
		cfg.File = filepath.Join(getCacheDir(), "blobnav.log")
	}
}

// applySourceDefaults sets listing source defaults.
func applySourceDefaults(cfg *SourceConfig) {
	if cfg.Type == "" {
		cfg.Type = "file"
	}

	// Initialize maps if nil
	if cfg.Azure == nil {
		cfg.Azure = make(map[string]any)
	}
	if cfg.S3 == nil {
		cfg.S3 = make(map[string]any)
	}
	if cfg.File == nil {
		cfg.File = make(map[string]any)
	}
}

// applyCacheDefaults sets listing cache defaults.
//
// Note: Enabled defaults to true, but that default is applied in
// setupViper where an explicit "enabled: false" can still be told apart
// from an absent key.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Path == "" {
		cfg.Path = filepath.Join(getCacheDir(), "listings")
	}
	if cfg.TTL == 0 {
		cfg.TTL = 15 * time.Minute
	}

	// BlockCacheSizeMB and IndexCacheSizeMB default to 0 here; the cache
	// store applies its own sizing defaults.
}

// applyRefreshDefaults sets background refresh defaults.
func applyRefreshDefaults(cfg *RefreshConfig) {
	// Enabled defaults to false

	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Minute
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false

	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyUIDefaults sets terminal UI defaults.
func applyUIDefaults(cfg *UIConfig) {
	if cfg.PageSize == 0 {
		cfg.PageSize = pager.DefaultPageSize
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "Jan _2 2006 15:04"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Source: SourceConfig{
			Azure: make(map[string]any),
			S3:    make(map[string]any),
			File:  make(map[string]any),
		},
		Cache: CacheConfig{
			Enabled: true, // Listing cache enabled by default
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
