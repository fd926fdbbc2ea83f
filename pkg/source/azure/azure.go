// Package azure provides a listing source backed by Azure Blob Storage.
package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/catalog"
)

// Config contains configuration for an Azure Blob Storage source.
type Config struct {
	// ContainerURL is the full container URL, e.g.
	// "https://account.blob.core.windows.net/backups". For private
	// containers a SAS token can be appended as a query string.
	ContainerURL string `mapstructure:"container_url"`

	// Prefix narrows the listing to blobs under this prefix. The prefix
	// is stripped from record names so the virtual tree starts below it.
	Prefix string `mapstructure:"prefix"`

	// DownloadBaseURL overrides the base used to build record URLs.
	// Defaults to ContainerURL without its query string, so SAS tokens
	// never leak into record URLs.
	DownloadBaseURL string `mapstructure:"download_base_url"`

	// PageSize is the number of blobs requested per listing page.
	// Default: 5000 (the service maximum).
	PageSize int32 `mapstructure:"page_size"`
}

// Source lists blobs from one Azure Blob Storage container.
//
// Only anonymous and SAS access are supported: the container URL
// carries the credentials, if any. Listing a few hundred thousand blobs
// takes a page per 5000 blobs, so a full fetch is tens of round trips.
type Source struct {
	client *container.Client
	config Config
	id     string
	base   string
}

// New creates an Azure source from config.
func New(config Config) (*Source, error) {
	if config.ContainerURL == "" {
		return nil, fmt.Errorf("azure source requires container_url")
	}
	if config.PageSize <= 0 {
		config.PageSize = 5000
	}

	client, err := container.NewClientWithNoCredential(config.ContainerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create container client: %w", err)
	}

	base := config.DownloadBaseURL
	if base == "" {
		base = stripQuery(config.ContainerURL)
	}

	return &Source{
		client: client,
		config: config,
		id:     "azure:" + containerName(config.ContainerURL),
		base:   strings.TrimRight(base, "/"),
	}, nil
}

// List pages through the flat blob listing and converts every blob to a
// record. Blob names keep their "/" separators, so the folder structure
// survives as-is.
func (s *Source) List(ctx context.Context) ([]catalog.Record, error) {
	opts := &container.ListBlobsFlatOptions{
		MaxResults: &s.config.PageSize,
	}
	if s.config.Prefix != "" {
		opts.Prefix = &s.config.Prefix
	}

	var records []catalog.Record
	pages := 0
	pager := s.client.NewListBlobsFlatPager(opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs (page %d): %w", pages+1, err)
		}
		pages++

		for _, blob := range page.Segment.BlobItems {
			if blob.Name == nil {
				continue
			}
			name := strings.TrimPrefix(*blob.Name, s.config.Prefix)
			name = strings.TrimPrefix(name, "/")
			if name == "" {
				continue
			}

			rec := catalog.Record{
				Name: name,
				URL:  s.base + "/" + escapePath(*blob.Name),
			}
			if props := blob.Properties; props != nil {
				if props.ContentLength != nil {
					rec.Length = *props.ContentLength
				}
				if props.LastModified != nil {
					rec.LastModified = props.LastModified.UTC().Format(http.TimeFormat)
				}
				if props.ContentType != nil {
					rec.ContentType = *props.ContentType
				}
			}
			records = append(records, rec)
		}
	}

	logger.Debug("Azure listing complete: %d blobs in %d pages", len(records), pages)
	return records, nil
}

// ID implements source.Source.
func (s *Source) ID() string {
	return s.id
}

// escapePath URL-escapes each path segment of a blob name, keeping the
// "/" separators intact.
func escapePath(name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// containerName extracts the container segment of the URL for the
// source ID. Falls back to the raw URL when parsing fails.
func containerName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return rawURL
	}
	return name
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
