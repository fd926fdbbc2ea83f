package cache

import (
	"errors"
	"time"

	"github.com/blobnav/blobnav/pkg/catalog"
	badger "github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no entry exists for the requested key.
var ErrNotFound = errors.New("cache: entry not found")

// listingEntry is the stored form of one cached listing.
type listingEntry struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Records   []catalog.Record `json:"records"`
}

// PutListing stores records as the cached listing for sourceID, stamped
// with the current time. Any previous listing for the source is
// replaced.
func (s *Store) PutListing(sourceID string, records []catalog.Record) error {
	data, err := encodeListingEntry(&listingEntry{
		FetchedAt: time.Now().UTC(),
		Records:   records,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyListing(sourceID), data)
	})
}

// GetListing returns the cached records for sourceID together with the
// time they were fetched. Returns ErrNotFound when no listing is
// cached. Freshness policy is the caller's business; the cache reports
// the fetch time and nothing more.
func (s *Store) GetListing(sourceID string) ([]catalog.Record, time.Time, error) {
	var entry *listingEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyListing(sourceID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = decodeListingEntry(val)
			return err
		})
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return entry.Records, entry.FetchedAt, nil
}

// DeleteListing removes the cached listing for sourceID. Deleting a
// listing that does not exist is not an error.
func (s *Store) DeleteListing(sourceID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyListing(sourceID))
	})
}
