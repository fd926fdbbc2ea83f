package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitConfig creates a default configuration file at the default location.
//
// The generated file contains all sections with their default values and
// explanatory comments, so users can edit it without consulting docs.
//
// Parameters:
//   - force: Overwrite an existing config file
//
// Returns:
//   - string: Path of the created config file
//   - error: Creation error, including "already exists" without force
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()

	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}

	return path, nil
}

// InitConfigToPath creates a default configuration file at the given path.
//
// Parent directories are created as needed.
//
// Parameters:
//   - path: Destination for the config file
//   - force: Overwrite an existing file
//
// Returns:
//   - error: Creation error, including "already exists" without force
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := generateYAMLWithComments(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// configTemplate is the commented config file skeleton. Defaults are
// filled in from a Config value so template and code cannot drift apart.
const configTemplate = `# blobnav Configuration File
#
# Environment variables with the BLOBNAV_ prefix override values in this
# file (example: BLOBNAV_LOGGING_LEVEL=DEBUG).

# Logging configuration
logging:
  # Log level: DEBUG, INFO, WARN, ERROR
  level: "%s"
  # Log file path. The terminal UI owns stdout, so logs go to a file.
  file: "%s"

# Listing source configuration
source:
  # Source type: azure, s3, file
  type: "%s"

  # Azure Blob Storage source (used when type = "azure")
  azure:
    # Container URL, including a SAS token when the container is private:
    # container_url: "https://account.blob.core.windows.net/container?sv=..."
    # Only list blobs under this prefix:
    # prefix: ""
    # Base URL for record download links. Defaults to the container URL
    # without its query string, so SAS tokens never end up in links:
    # download_base_url: ""

  # S3 source (used when type = "s3")
  s3:
    # region: "us-east-1"
    # bucket: "my-bucket"
    # prefix: ""
    # Custom endpoint for MinIO or Localstack:
    # endpoint: ""
    # Credentials. Leave empty to use the default AWS credential chain:
    # access_key_id: ""
    # secret_access_key: ""

  # Local file source (used when type = "file")
  file:
    # Path to a JSON listing file:
    # path: "listing.json"

# Local listing cache
cache:
  enabled: %t
  # BadgerDB directory
  path: "%s"
  # How long a cached listing is considered fresh
  ttl: %s

# Background refresh
refresh:
  enabled: %t
  # How often the listing is refetched
  interval: %s

# Prometheus metrics
metrics:
  enabled: %t
  # HTTP port for the /metrics endpoint
  port: %d

# Terminal UI
ui:
  # Entries shown per page
  page_size: %d
  # Go time layout for the modified column
  date_format: "%s"
`

// generateYAMLWithComments renders the commented config file for cfg.
func generateYAMLWithComments(cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config must not be nil")
	}

	return fmt.Sprintf(configTemplate,
		cfg.Logging.Level,
		cfg.Logging.File,
		cfg.Source.Type,
		cfg.Cache.Enabled,
		cfg.Cache.Path,
		cfg.Cache.TTL,
		cfg.Refresh.Enabled,
		cfg.Refresh.Interval,
		cfg.Metrics.Enabled,
		cfg.Metrics.Port,
		cfg.UI.PageSize,
		cfg.UI.DateFormat,
	), nil
}
