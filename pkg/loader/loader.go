// Package loader fetches object listings from a source and keeps them
// cached locally.
//
// The loader sits between a listing source (Azure, S3, local file) and
// the query engine: it decides whether to serve a cached listing or
// fetch a fresh one, sanitizes what it fetched, and falls back to stale
// cache data when the source is unreachable.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/cache"
	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/metrics"
	"github.com/blobnav/blobnav/pkg/source"
)

// Config contains configuration for the loader.
type Config struct {
	// TTL is how long a cached listing is considered fresh (default: 15m).
	// A stale entry is still kept around as a fallback for failed fetches.
	TTL time.Duration
}

// Loader loads object listings, preferring the local cache when it is
// fresh enough.
//
// Thread Safety: Safe for concurrent use. The loader itself holds no
// mutable state; concurrency concerns live in the cache store.
type Loader struct {
	source  source.Source
	cache   *cache.Store
	config  Config
	metrics metrics.LoaderMetrics
}

// noopLoaderMetrics provides a local no-op implementation when metrics
// package is not used.
type noopLoaderMetrics struct{}

func (n *noopLoaderMetrics) RecordFetch(source string, duration time.Duration, err error) {}
func (n *noopLoaderMetrics) RecordCacheLookup(hit bool)                                   {}
func (n *noopLoaderMetrics) RecordRecords(count int)                                      {}

// New creates a loader for the given source.
//
// Parameters:
//   - src: Listing source to fetch from
//   - cacheStore: Local cache, or nil when caching is disabled
//   - config: Loader configuration
//   - loaderMetrics: Metrics recorder, or nil to disable metrics
func New(src source.Source, cacheStore *cache.Store, config Config, loaderMetrics metrics.LoaderMetrics) *Loader {
	if config.TTL == 0 {
		config.TTL = 15 * time.Minute
	}
	if loaderMetrics == nil {
		loaderMetrics = &noopLoaderMetrics{}
	}

	return &Loader{
		source:  src,
		cache:   cacheStore,
		config:  config,
		metrics: loaderMetrics,
	}
}

// Load returns the listing, serving the cached copy when it is still
// fresh.
//
// When the cached copy is stale or missing the source is queried. If
// the fetch fails and a stale cached listing exists, the stale listing
// is returned instead of an error so the UI stays usable offline.
func (l *Loader) Load(ctx context.Context) ([]catalog.Record, error) {
	stale := l.lookupCache()
	if stale.fresh {
		logger.Debug("Serving cached listing for %s: %d records (fetched %s ago)",
			l.source.ID(), len(stale.records), time.Since(stale.fetchedAt).Round(time.Second))
		l.metrics.RecordRecords(len(stale.records))
		return stale.records, nil
	}

	records, err := l.fetch(ctx)
	if err != nil {
		if stale.records != nil {
			logger.Warn("Listing fetch from %s failed, serving stale cache from %s: %v",
				l.source.ID(), stale.fetchedAt.Format(time.RFC3339), err)
			l.metrics.RecordRecords(len(stale.records))
			return stale.records, nil
		}
		return nil, err
	}
	return records, nil
}

// Refresh always queries the source, ignoring cache freshness.
//
// Unlike Load there is no stale fallback: callers refresh to replace a
// listing they already hold, so on failure they simply keep it.
func (l *Loader) Refresh(ctx context.Context) ([]catalog.Record, error) {
	return l.fetch(ctx)
}

// cachedListing is the result of a cache lookup.
type cachedListing struct {
	records   []catalog.Record
	fetchedAt time.Time
	fresh     bool
}

// lookupCache reads the cached listing and decides whether it is fresh.
// Returns a zero value when caching is disabled or nothing is cached.
func (l *Loader) lookupCache() cachedListing {
	if l.cache == nil {
		return cachedListing{}
	}

	records, fetchedAt, err := l.cache.GetListing(l.source.ID())
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("Listing cache lookup for %s failed: %v", l.source.ID(), err)
		}
		l.metrics.RecordCacheLookup(false)
		return cachedListing{}
	}

	fresh := time.Since(fetchedAt) < l.config.TTL
	l.metrics.RecordCacheLookup(fresh)
	return cachedListing{records: records, fetchedAt: fetchedAt, fresh: fresh}
}

// fetch queries the source, sanitizes the listing and updates the cache.
func (l *Loader) fetch(ctx context.Context) ([]catalog.Record, error) {
	start := time.Now()
	records, err := l.source.List(ctx)
	l.metrics.RecordFetch(l.source.ID(), time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing from %s: %w", l.source.ID(), err)
	}

	records = sanitizeRecords(records)

	if l.cache != nil {
		// A cache write failure only costs the next startup a refetch.
		if err := l.cache.PutListing(l.source.ID(), records); err != nil {
			logger.Warn("Failed to cache listing for %s: %v", l.source.ID(), err)
		}
	}

	l.metrics.RecordRecords(len(records))
	logger.Info("Fetched listing from %s: %d records in %s",
		l.source.ID(), len(records), time.Since(start).Round(time.Millisecond))
	return records, nil
}
