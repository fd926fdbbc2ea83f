package cache

import (
	"encoding/json"
	"fmt"
)

// Serialization helpers.
//
// Everything in the cache is stored as JSON. The listing blob for a
// large source runs to a few megabytes, which BadgerDB handles fine as
// a single value, and JSON keeps the database inspectable with standard
// tools.

func encodeListingEntry(entry *listingEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode listing entry: %w", err)
	}
	return data, nil
}

func decodeListingEntry(data []byte) (*listingEntry, error) {
	var entry listingEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode listing entry: %w", err)
	}
	return &entry, nil
}

func encodeFavorite(fav *Favorite) ([]byte, error) {
	data, err := json.Marshal(fav)
	if err != nil {
		return nil, fmt.Errorf("failed to encode favorite: %w", err)
	}
	return data, nil
}

func decodeFavorite(data []byte) (*Favorite, error) {
	var fav Favorite
	if err := json.Unmarshal(data, &fav); err != nil {
		return nil, fmt.Errorf("failed to decode favorite: %w", err)
	}
	return &fav, nil
}
