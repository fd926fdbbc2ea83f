package cache

import (
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Favorite is one saved folder view: a folder pattern plus display
// preferences, resolved against the live index when selected.
type Favorite struct {
	// Name identifies the favorite and doubles as its storage key.
	Name string `json:"name"`

	// Pattern is the folder pattern passed to the folder matcher.
	Pattern string `json:"pattern"`

	// Limit caps the number of matched folders. Zero means no limit.
	Limit int `json:"limit"`

	// SortOrder is "asc" or "desc" for the matched folder list.
	SortOrder string `json:"sort_order"`

	// CreatedAt records when the favorite was saved.
	CreatedAt time.Time `json:"created_at"`
}

// PutFavorite stores fav under its name, replacing any previous
// favorite with the same name. A zero CreatedAt is stamped with the
// current time.
func (s *Store) PutFavorite(fav Favorite) error {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}
	data, err := encodeFavorite(&fav)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFavorite(fav.Name), data)
	})
}

// GetFavorite returns the favorite stored under name, or ErrNotFound.
func (s *Store) GetFavorite(name string) (Favorite, error) {
	var fav *Favorite
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFavorite(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			fav, err = decodeFavorite(val)
			return err
		})
	})
	if err != nil {
		return Favorite{}, err
	}
	return *fav, nil
}

// DeleteFavorite removes the favorite stored under name. Deleting a
// favorite that does not exist is not an error.
func (s *Store) DeleteFavorite(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyFavorite(name))
	})
}

// ListFavorites returns all saved favorites sorted by name, which is
// the key order BadgerDB iterates in.
func (s *Store) ListFavorites() ([]Favorite, error) {
	var favorites []Favorite
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixFavorite)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				fav, err := decodeFavorite(val)
				if err != nil {
					return err
				}
				favorites = append(favorites, *fav)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return favorites, nil
}
