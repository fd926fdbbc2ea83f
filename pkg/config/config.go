package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete blobnav configuration.
//
// This structure captures all configurable aspects of the browser including:
//   - Logging configuration
//   - Listing source selection and configuration (source-specific)
//   - Local cache settings
//   - Background refresh behavior
//   - Metrics exposure
//   - Terminal UI behavior
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (BLOBNAV_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Source Configuration Pattern:
// Each source implementation defines its own configuration type and factory
// function. The Config struct contains type-specific sections (e.g.
// source.azure, source.s3) and only the section matching the selected type
// is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Source specifies the listing source type and type-specific configuration
	Source SourceConfig `mapstructure:"source"`

	// Cache configures the local listing cache
	Cache CacheConfig `mapstructure:"cache"`

	// Refresh configures periodic background refresh of the listing
	Refresh RefreshConfig `mapstructure:"refresh"`

	// Metrics configures the Prometheus metrics endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`

	// UI contains terminal UI settings
	UI UIConfig `mapstructure:"ui"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// File is the log file path. The terminal UI owns stdout while it is
	// on screen, so logs always go to a rotating file.
	File string `mapstructure:"file" validate:"required"`
}

// SourceConfig specifies listing source configuration.
//
// The Type field determines which source implementation is used.
// Only the corresponding type-specific configuration section is used.
type SourceConfig struct {
	// Type specifies which listing source implementation to use
	// Valid values: azure, s3, file
	Type string `mapstructure:"type" validate:"required,oneof=azure s3 file"`

	// Azure contains Azure Blob Storage-specific configuration
	// Only used when Type = "azure"
	Azure map[string]any `mapstructure:"azure"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3"`

	// File contains local file source configuration
	// Only used when Type = "file"
	File map[string]any `mapstructure:"file"`
}

// CacheConfig configures the local listing cache.
type CacheConfig struct {
	// Enabled controls whether listings are cached on disk (default: true)
	Enabled bool `mapstructure:"enabled"`

	// Path is the BadgerDB directory (default: $XDG_CACHE_HOME/blobnav/listings)
	Path string `mapstructure:"path"`

	// TTL is how long a cached listing is considered fresh (default: 15m)
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`

	// BlockCacheSizeMB is the BadgerDB block cache size in megabytes
	// Zero lets the cache store pick its own default.
	BlockCacheSizeMB int64 `mapstructure:"block_cache_mb" validate:"gte=0"`

	// IndexCacheSizeMB is the BadgerDB index cache size in megabytes
	// Zero lets the cache store pick its own default.
	IndexCacheSizeMB int64 `mapstructure:"index_cache_mb" validate:"gte=0"`
}

// RefreshConfig configures periodic background refresh.
type RefreshConfig struct {
	// Enabled turns on periodic background refresh (default: false)
	Enabled bool `mapstructure:"enabled"`

	// Interval is how often the listing is refetched (default: 5m)
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled exposes Prometheus metrics over HTTP (default: false)
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics HTTP port (default: 9090)
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// PageSize is the number of entries shown per page (default: 100)
	PageSize int `mapstructure:"page_size" validate:"gt=0"`

	// DateFormat is the Go time layout used for the modified column
	DateFormat string `mapstructure:"date_format" validate:"required"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (BLOBNAV_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use BLOBNAV_ prefix and underscores
	// Example: BLOBNAV_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("BLOBNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true are declared here, where an explicit
	// "enabled: false" can still be told apart from an absent key.
	v.SetDefault("cache.enabled", true)

	// Configure config file search
	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/blobnav/config.yaml
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Check if error is "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		// A named config file that is simply absent is also acceptable
		if os.IsNotExist(err) {
			return nil
		}
		// Other errors are problems
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "blobnav")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "blobnav")
}

// getCacheDir returns the cache directory path.
//
// Uses XDG_CACHE_HOME if set, otherwise ~/.cache, or falls back to a
// directory under the current directory if home cannot be determined.
func getCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "blobnav")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".blobnav"
	}

	return filepath.Join(home, ".cache", "blobnav")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
