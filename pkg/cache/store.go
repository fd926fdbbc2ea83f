// Package cache persists fetched listings and user favorites in an
// embedded BadgerDB database.
//
// The cache lets blobnav start from the last known listing without
// waiting on the network, and keeps favorites across restarts. Losing
// the database is harmless: listings are refetched and favorites are
// the only user data.
package cache

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Store is a BadgerDB-backed persistence layer for listings and
// favorites.
//
// Thread Safety:
// All operations run inside BadgerDB transactions, so a Store is safe
// for concurrent use from multiple goroutines.
type Store struct {
	db *badger.DB
}

// Config contains configuration for opening the cache store.
type Config struct {
	// Path is the directory where BadgerDB stores its files. BadgerDB
	// creates multiple files in this directory (value log, LSM tree,
	// etc.) and creates the directory if it does not exist.
	Path string `mapstructure:"path"`

	// BlockCacheSizeMB is BadgerDB's block cache size in MB (default: 64).
	BlockCacheSizeMB int64 `mapstructure:"block_cache_size_mb"`

	// IndexCacheSizeMB is BadgerDB's index cache size in MB (default: 32).
	IndexCacheSizeMB int64 `mapstructure:"index_cache_size_mb"`
}

// Open opens (or creates) the cache database at config.Path.
//
// The returned store is immediately ready for use and safe for
// concurrent access. Callers must Close it when done.
//
// Parameters:
//   - ctx: Context for cancellation during initialization
//   - config: Store configuration
//
// Returns:
//   - *Store: A ready cache store
//   - error: Error if the database cannot be opened or ctx is cancelled
func Open(ctx context.Context, config Config) (*Store, error) {
	// Check context before database operations
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(config.Path)
	opts = opts.WithLoggingLevel(badger.WARNING) // Reduce log noise
	opts = opts.WithCompression(options.None)    // Entries are written once per refresh, compression overhead not worth it

	// The working set is tiny (one listing blob per source plus
	// favorites), so the caches stay far below the defaults used for
	// heavier workloads.
	blockCacheMB := config.BlockCacheSizeMB
	if blockCacheMB == 0 {
		blockCacheMB = 64
	}
	indexCacheMB := config.IndexCacheSizeMB
	if indexCacheMB == 0 {
		indexCacheMB = 32
	}
	opts = opts.WithBlockCacheSize(blockCacheMB << 20) // Convert MB to bytes
	opts = opts.WithIndexCacheSize(indexCacheMB << 20) // Convert MB to bytes

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.Path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database and releases all resources.
// After calling Close, the store must not be used.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}
