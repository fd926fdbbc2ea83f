package catalog

import "sync"

// Store holds the record list for one source together with memoized
// type classifications. Load replaces the whole list atomically and
// queries read the current snapshot, so a Store is safe to share
// between the UI loop and a background refresher.
type Store struct {
	mu      sync.RWMutex
	records []Record
	types   map[string]FileTypeInfo
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{types: make(map[string]FileTypeInfo)}
}

// Load replaces the record set wholesale and drops every memoized
// classification. Readers never observe a partially replaced list.
func (s *Store) Load(records []Record) {
	types := make(map[string]FileTypeInfo, len(records))
	s.mu.Lock()
	s.records = records
	s.types = types
	s.mu.Unlock()
}

// Records returns the current record list. The returned slice is shared
// with the store and must not be modified.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the number of records currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Classify returns the type info for a record, computing and caching it
// on first access. The memo is keyed by record URL; the supported
// sources emit one distinct URL per object. Two goroutines racing on
// the same miss both compute the same value, so the duplicate write is
// harmless.
func (s *Store) Classify(r Record) FileTypeInfo {
	s.mu.RLock()
	info, ok := s.types[r.URL]
	s.mu.RUnlock()
	if ok {
		return info
	}
	info = classifyName(r.Name)
	s.mu.Lock()
	s.types[r.URL] = info
	s.mu.Unlock()
	return info
}
