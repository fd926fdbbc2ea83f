package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/blobnav/blobnav/pkg/cache"
	"github.com/blobnav/blobnav/pkg/catalog"
)

// stubSource is a listing source with canned results.
type stubSource struct {
	records []catalog.Record
	err     error
	calls   int
}

func (s *stubSource) List(ctx context.Context) ([]catalog.Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) ID() string {
	return "stub:test"
}

func testRecords() []catalog.Record {
	return []catalog.Record{
		{Name: "docs/readme.txt", URL: "https://host/docs/readme.txt", Length: 120},
		{Name: "bin/app.exe", URL: "https://host/bin/app.exe", Length: 2048},
	}
}

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()

	store, err := cache.Open(context.Background(), cache.Config{
		Path: filepath.Join(t.TempDir(), "cache"),
	})
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	return store
}

func TestLoadFetchesWithoutCache(t *testing.T) {
	src := &stubSource{records: testRecords()}
	loader := New(src, nil, Config{}, nil)

	records, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
	if src.calls != 1 {
		t.Errorf("Expected 1 source call, got %d", src.calls)
	}
}

func TestLoadServesFreshCache(t *testing.T) {
	store := openTestCache(t)
	defer func() { _ = store.Close() }()

	src := &stubSource{records: testRecords()}
	if err := store.PutListing(src.ID(), testRecords()); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}

	loader := New(src, store, Config{TTL: time.Hour}, nil)

	records, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
	if src.calls != 0 {
		t.Errorf("Expected source not to be called, got %d calls", src.calls)
	}
}

func TestLoadRefetchesStaleCache(t *testing.T) {
	store := openTestCache(t)
	defer func() { _ = store.Close() }()

	src := &stubSource{records: testRecords()}
	stale := []catalog.Record{{Name: "old.txt", URL: "https://host/old.txt", Length: 1}}
	if err := store.PutListing(src.ID(), stale); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	loader := New(src, store, Config{TTL: time.Nanosecond}, nil)

	records, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("Expected 1 source call, got %d", src.calls)
	}
	if len(records) != 2 || records[0].Name != "docs/readme.txt" {
		t.Errorf("Expected fresh records, got %+v", records)
	}
}

func TestLoadFallsBackToStaleCacheOnError(t *testing.T) {
	store := openTestCache(t)
	defer func() { _ = store.Close() }()

	src := &stubSource{err: errors.New("network down")}
	stale := []catalog.Record{{Name: "old.txt", URL: "https://host/old.txt", Length: 1}}
	if err := store.PutListing(src.ID(), stale); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	loader := New(src, store, Config{TTL: time.Nanosecond}, nil)

	records, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected stale fallback, got error: %v", err)
	}

	if len(records) != 1 || records[0].Name != "old.txt" {
		t.Errorf("Expected stale records, got %+v", records)
	}
}

func TestLoadErrorWithoutFallback(t *testing.T) {
	src := &stubSource{err: errors.New("network down")}
	loader := New(src, nil, Config{}, nil)

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Expected error when fetch fails and nothing is cached")
	}
}

func TestLoadStoresFetchedListing(t *testing.T) {
	store := openTestCache(t)
	defer func() { _ = store.Close() }()

	src := &stubSource{records: testRecords()}
	loader := New(src, store, Config{TTL: time.Hour}, nil)

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cached, _, err := store.GetListing(src.ID())
	if err != nil {
		t.Fatalf("Expected listing to be cached: %v", err)
	}
	if len(cached) != 2 {
		t.Errorf("Expected 2 cached records, got %d", len(cached))
	}
}

func TestRefreshIgnoresFreshCache(t *testing.T) {
	store := openTestCache(t)
	defer func() { _ = store.Close() }()

	src := &stubSource{records: testRecords()}
	if err := store.PutListing(src.ID(), []catalog.Record{}); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}

	loader := New(src, store, Config{TTL: time.Hour}, nil)

	records, err := loader.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("Expected 1 source call, got %d", src.calls)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestSanitizeRecordsDropsInvalid(t *testing.T) {
	records := []catalog.Record{
		{Name: "good.txt", URL: "https://host/good.txt", Length: 10},
		{Name: "", URL: "https://host/noname", Length: 10},
		{Name: "nourl.txt", URL: "", Length: 10},
		{Name: "negative.txt", URL: "https://host/negative.txt", Length: -1},
		{Name: "/absolute.txt", URL: "https://host/absolute.txt", Length: 10},
		{Name: "dup.txt", URL: "https://host/first", Length: 1},
		{Name: "dup.txt", URL: "https://host/second", Length: 2},
		{Name: "empty.txt", URL: "https://host/empty.txt", Length: 0},
	}

	clean := sanitizeRecords(records)

	if len(clean) != 3 {
		t.Fatalf("Expected 3 records to survive, got %d: %+v", len(clean), clean)
	}
	if clean[0].Name != "good.txt" || clean[1].Name != "dup.txt" || clean[2].Name != "empty.txt" {
		t.Errorf("Unexpected survivors: %+v", clean)
	}
	if clean[1].URL != "https://host/first" {
		t.Errorf("Expected first duplicate to win, got %q", clean[1].URL)
	}
}

func TestRefresherDeliversUpdates(t *testing.T) {
	src := &stubSource{records: testRecords()}
	loader := New(src, nil, Config{}, nil)

	updates := make(chan []catalog.Record, 1)
	refresher := NewRefresher(loader, RefreshConfig{
		Enabled:  true,
		Interval: 20 * time.Millisecond,
	}, func(records []catalog.Record) {
		select {
		case updates <- records:
		default:
		}
	})

	refresher.Start()

	select {
	case records := <-updates:
		if len(records) != 2 {
			t.Errorf("Expected 2 records in update, got %d", len(records))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for refresh update")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := refresher.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestRefresherDisabled(t *testing.T) {
	src := &stubSource{records: testRecords()}
	loader := New(src, nil, Config{}, nil)

	refresher := NewRefresher(loader, RefreshConfig{Enabled: false}, nil)
	refresher.Start()

	if err := refresher.Stop(context.Background()); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if src.calls != 0 {
		t.Errorf("Expected no source calls, got %d", src.calls)
	}
}
