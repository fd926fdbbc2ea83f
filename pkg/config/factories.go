package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/cache"
	"github.com/blobnav/blobnav/pkg/source"
	sourceAzure "github.com/blobnav/blobnav/pkg/source/azure"
	sourceFile "github.com/blobnav/blobnav/pkg/source/file"
	sourceS3 "github.com/blobnav/blobnav/pkg/source/s3"
	"github.com/mitchellh/mapstructure"
)

// CreateSource creates a listing source based on configuration.
//
// This factory function uses the Type field to determine which source
// implementation to create, then decodes the type-specific configuration
// from the corresponding map and passes it to the source's constructor.
//
// Supported types:
//   - "azure": Uses pkg/source/azure (Azure Blob Storage container listing)
//   - "s3": Uses pkg/source/s3 (Amazon S3 or compatible storage)
//   - "file": Uses pkg/source/file (local JSON listing file)
//
// Parameters:
//   - ctx: Context for initialization operations
//   - cfg: Listing source configuration
//
// Returns:
//   - source.Source: Initialized listing source
//   - error: Configuration or initialization error
func CreateSource(ctx context.Context, cfg *SourceConfig) (source.Source, error) {
	switch cfg.Type {
	case "azure":
		return createAzureSource(cfg.Azure)
	case "s3":
		return createS3Source(ctx, cfg.S3)
	case "file":
		return createFileSource(cfg.File)
	default:
		return nil, fmt.Errorf("unknown source type: %q (supported: azure, s3, file)", cfg.Type)
	}
}

// createAzureSource creates an Azure Blob Storage listing source.
func createAzureSource(options map[string]any) (source.Source, error) {
	// Define the configuration struct for the Azure source
	type AzureSourceConfig struct {
		ContainerURL    string `mapstructure:"container_url"`
		Prefix          string `mapstructure:"prefix"`
		DownloadBaseURL string `mapstructure:"download_base_url"`
		PageSize        int32  `mapstructure:"page_size"`
	}

	// Decode the options into the config struct
	var srcCfg AzureSourceConfig
	if err := mapstructure.Decode(options, &srcCfg); err != nil {
		return nil, fmt.Errorf("failed to decode azure source config: %w", err)
	}

	// Validate required fields
	if srcCfg.ContainerURL == "" {
		return nil, fmt.Errorf("azure source: container_url is required")
	}

	src, err := sourceAzure.New(sourceAzure.Config{
		ContainerURL:    srcCfg.ContainerURL,
		Prefix:          srcCfg.Prefix,
		DownloadBaseURL: srcCfg.DownloadBaseURL,
		PageSize:        srcCfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create azure source: %w", err)
	}

	logger.Info("Azure source initialized: %s prefix=%q", src.ID(), srcCfg.Prefix)

	return src, nil
}

// createS3Source creates an S3-based listing source.
func createS3Source(ctx context.Context, options map[string]any) (source.Source, error) {
	// Define the configuration struct for the S3 source
	type S3SourceConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		Prefix          string `mapstructure:"prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		DownloadBaseURL string `mapstructure:"download_base_url"`
		PageSize        int32  `mapstructure:"page_size"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	// Decode the options into the config struct
	var srcCfg S3SourceConfig
	if err := mapstructure.Decode(options, &srcCfg); err != nil {
		return nil, fmt.Errorf("failed to decode s3 source config: %w", err)
	}

	// Validate required fields
	if srcCfg.Bucket == "" {
		return nil, fmt.Errorf("s3 source: bucket is required")
	}

	if srcCfg.Region == "" {
		return nil, fmt.Errorf("s3 source: region is required")
	}

	// ========================================================================
	// Step 1: Build AWS Config
	// ========================================================================

	var configOptions []func(*awsConfig.LoadOptions) error

	// Set region
	configOptions = append(configOptions, awsConfig.WithRegion(srcCfg.Region))

	// Set custom endpoint if provided (for MinIO, Localstack, etc.)
	if srcCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               srcCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Set credentials if provided, otherwise use default credential chain
	if srcCfg.AccessKeyID != "" && srcCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			srcCfg.AccessKeyID,
			srcCfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	// Configure retries for better resilience against temporary S3 failures
	maxRetries := srcCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10 // Default: 10 attempts
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries // Retry for transient errors (502, 503, timeouts, etc.)
		})
	}))

	// Load AWS config
	cfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// ========================================================================
	// Step 2: Create S3 Client
	// ========================================================================

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// Force path-style addressing for compatibility with MinIO/Localstack
		if srcCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	// ========================================================================
	// Step 3: Create S3 Source
	// ========================================================================

	src, err := sourceS3.New(sourceS3.Config{
		Client:          client,
		Bucket:          srcCfg.Bucket,
		Prefix:          srcCfg.Prefix,
		DownloadBaseURL: srcCfg.DownloadBaseURL,
		PageSize:        srcCfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 source: %w", err)
	}

	logger.Info("S3 source initialized: bucket=%s, region=%s, prefix=%s",
		srcCfg.Bucket, srcCfg.Region, srcCfg.Prefix)

	return src, nil
}

// createFileSource creates a local file listing source.
func createFileSource(options map[string]any) (source.Source, error) {
	// Define the configuration struct for the file source
	type FileSourceConfig struct {
		Path string `mapstructure:"path"`
	}

	// Decode the options into the config struct
	var srcCfg FileSourceConfig
	if err := mapstructure.Decode(options, &srcCfg); err != nil {
		return nil, fmt.Errorf("failed to decode file source config: %w", err)
	}

	// Validate required fields
	if srcCfg.Path == "" {
		return nil, fmt.Errorf("file source: path is required")
	}

	src, err := sourceFile.New(sourceFile.Config{Path: srcCfg.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to create file source: %w", err)
	}

	return src, nil
}

// CreateCache opens the local listing cache based on configuration.
//
// Returns (nil, nil) when the cache is disabled; callers treat a nil
// store as "no caching".
//
// Parameters:
//   - ctx: Context for initialization operations
//   - cfg: Cache configuration
//
// Returns:
//   - *cache.Store: Opened cache store, or nil when disabled
//   - error: Initialization error
func CreateCache(ctx context.Context, cfg *CacheConfig) (*cache.Store, error) {
	if !cfg.Enabled {
		logger.Debug("Listing cache disabled")
		return nil, nil
	}

	store, err := cache.Open(ctx, cache.Config{
		Path:             cfg.Path,
		BlockCacheSizeMB: cfg.BlockCacheSizeMB,
		IndexCacheSizeMB: cfg.IndexCacheSizeMB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open listing cache: %w", err)
	}

	logger.Info("Listing cache opened: path=%s", cfg.Path)

	return store, nil
}
