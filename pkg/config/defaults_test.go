package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.File == "" {
		t.Error("Expected default log file path to be set")
	}
}

func TestApplyDefaults_Source(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Source.Type != "file" {
		t.Errorf("Expected default source type 'file', got %q", cfg.Source.Type)
	}

	// Check option maps are initialized
	if cfg.Source.Azure == nil {
		t.Fatal("Expected Azure map to be initialized")
	}
	if cfg.Source.S3 == nil {
		t.Fatal("Expected S3 map to be initialized")
	}
	if cfg.Source.File == nil {
		t.Fatal("Expected File map to be initialized")
	}
}

func TestApplyDefaults_Cache(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Cache.Path == "" {
		t.Error("Expected default cache path to be set")
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Expected default cache TTL 15m, got %v", cfg.Cache.TTL)
	}

	// BlockCacheSizeMB defaults are applied by the cache store itself
	if cfg.Cache.BlockCacheSizeMB != 0 {
		t.Errorf("Expected block cache size left at 0, got %d", cfg.Cache.BlockCacheSizeMB)
	}
}

func TestApplyDefaults_Refresh(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Refresh.Enabled {
		t.Error("Expected refresh to default to disabled")
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Errorf("Expected default refresh interval 5m, got %v", cfg.Refresh.Interval)
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to default to disabled")
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestApplyDefaults_UI(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.UI.PageSize != 100 {
		t.Errorf("Expected default page size 100, got %d", cfg.UI.PageSize)
	}
	if cfg.UI.DateFormat == "" {
		t.Error("Expected default date format to be set")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level: "debug",
			File:  "/var/log/blobnav.log",
		},
		Source: SourceConfig{
			Type: "azure",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "/custom/cache",
			TTL:     time.Hour,
		},
		UI: UIConfig{
			PageSize:   25,
			DateFormat: "2006-01-02",
		},
	}

	ApplyDefaults(cfg)

	// Level is normalized to uppercase but otherwise preserved
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.File != "/var/log/blobnav.log" {
		t.Errorf("Expected explicit log file to be preserved, got %q", cfg.Logging.File)
	}
	if cfg.Source.Type != "azure" {
		t.Errorf("Expected explicit source type 'azure' to be preserved, got %q", cfg.Source.Type)
	}
	if cfg.Cache.Path != "/custom/cache" {
		t.Errorf("Expected explicit cache path to be preserved, got %q", cfg.Cache.Path)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Expected explicit TTL 1h to be preserved, got %v", cfg.Cache.TTL)
	}
	if cfg.UI.PageSize != 25 {
		t.Errorf("Expected explicit page size 25 to be preserved, got %d", cfg.UI.PageSize)
	}
	if cfg.UI.DateFormat != "2006-01-02" {
		t.Errorf("Expected explicit date format to be preserved, got %q", cfg.UI.DateFormat)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	// The default config should pass validation
	err := Validate(cfg)
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}
