// Package s3 provides a listing source backed by Amazon S3 or
// S3-compatible storage.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/catalog"
)

// Config contains configuration for an S3 listing source.
type Config struct {
	// Client is the configured S3 client. Credentials, endpoint and
	// retry policy are set when the client is built (see the config
	// factories).
	Client *s3.Client

	// Bucket is the S3 bucket name.
	Bucket string

	// Prefix narrows the listing to keys under this prefix. The prefix
	// is stripped from record names.
	Prefix string

	// DownloadBaseURL is the base for building record URLs. Defaults to
	// the virtual-hosted AWS form "https://<bucket>.s3.amazonaws.com";
	// S3-compatible endpoints must set it explicitly.
	DownloadBaseURL string

	// PageSize is the number of keys requested per listing page.
	// Default: 1000 (the service maximum).
	PageSize int32
}

// Source lists objects from one S3 bucket.
type Source struct {
	client *s3.Client
	config Config
	base   string
}

// New creates an S3 source from config.
func New(config Config) (*Source, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("s3 source requires a configured client")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("s3 source requires a bucket")
	}
	if config.PageSize <= 0 {
		config.PageSize = 1000
	}

	base := config.DownloadBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", config.Bucket)
	}

	return &Source{
		client: config.Client,
		config: config,
		base:   strings.TrimRight(base, "/"),
	}, nil
}

// List pages through ListObjectsV2 and converts every object to a
// record. Keys ending in "/" are folder markers left by console uploads
// and are skipped; the folder index derives folders from file paths
// instead.
func (s *Source) List(ctx context.Context) ([]catalog.Record, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.config.Bucket),
		MaxKeys: aws.Int32(s.config.PageSize),
	}
	if s.config.Prefix != "" {
		input.Prefix = aws.String(s.config.Prefix)
	}

	var records []catalog.Record
	pages := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects (page %d): %w", pages+1, err)
		}
		pages++

		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			name := strings.TrimPrefix(*obj.Key, s.config.Prefix)
			name = strings.TrimPrefix(name, "/")
			if name == "" {
				continue
			}

			rec := catalog.Record{
				Name: name,
				URL:  s.base + "/" + escapePath(*obj.Key),
			}
			if obj.Size != nil {
				rec.Length = *obj.Size
			}
			if obj.LastModified != nil {
				rec.LastModified = obj.LastModified.UTC().Format(http.TimeFormat)
			}
			records = append(records, rec)
		}
	}

	logger.Debug("S3 listing complete: %d objects in %d pages", len(records), pages)
	return records, nil
}

// ID implements source.Source.
func (s *Source) ID() string {
	return "s3:" + s.config.Bucket
}

// escapePath URL-escapes each path segment of an object key, keeping
// the "/" separators intact.
func escapePath(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
