package cache

// Key schema.
//
// All keys are namespaced with a short prefix so the different record
// types never collide and prefix scans stay cheap:
//
//	Prefix    Key format         Value (JSON)      Description
//	l:        l:<source-id>      listingEntry      Cached listing for one source
//	fav:      fav:<name>         Favorite          One saved favorite view
//
// Listing keys are point lookups only. Favorite keys are scanned by
// prefix; BadgerDB iterates keys in lexicographic order, so favorites
// come back sorted by name for free.
const (
	prefixListing  = "l:"
	prefixFavorite = "fav:"
)

// keyListing generates the key for a cached source listing.
func keyListing(sourceID string) []byte {
	return []byte(prefixListing + sourceID)
}

// keyFavorite generates the key for a saved favorite.
func keyFavorite(name string) []byte {
	return []byte(prefixFavorite + name)
}
