package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/blobnav/blobnav/pkg/cache"
	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/index"
	"github.com/blobnav/blobnav/pkg/query"
	tea "github.com/charmbracelet/bubbletea"
)

func testRecords() []catalog.Record {
	return []catalog.Record{
		{Name: "readme.txt", URL: "https://host/readme.txt", Length: 120, LastModified: "Mon, 02 Jun 2025 10:00:00 GMT"},
		{Name: "notes.md", URL: "https://host/notes.md", Length: 40, LastModified: "Tue, 03 Jun 2025 10:00:00 GMT"},
		{Name: "docs/guide.pdf", URL: "https://host/docs/guide.pdf", Length: 2048, LastModified: "Wed, 04 Jun 2025 10:00:00 GMT"},
		{Name: "docs/archive/old.pdf", URL: "https://host/docs/archive/old.pdf", Length: 512, LastModified: "Thu, 05 Jun 2025 10:00:00 GMT"},
		{Name: "music/track.mp3", URL: "https://host/music/track.mp3", Length: 4096, LastModified: "Fri, 06 Jun 2025 10:00:00 GMT"},
	}
}

func newTestModel(t *testing.T, records []catalog.Record, opts Options) *Model {
	t.Helper()

	engine := query.NewEngine(catalog.NewStore(), index.New(), nil)
	engine.Reload(records)

	if opts.SourceID == "" {
		opts.SourceID = "test"
	}
	m := NewModel(engine, opts)
	m.width = 100
	m.height = 30
	return m
}

// runCmds feeds command results back into the model until the chain
// ends, the way the bubbletea runtime would.
func runCmds(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	runCmds(t, m, cmd)
}

func pressRune(t *testing.T, m *Model, r rune) {
	t.Helper()
	press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func entryNames(m *Model) []string {
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	return names
}

func TestInitialListing(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	names := entryNames(m)
	// Folders sorted ascending, then files newest first.
	expected := []string{"docs", "music", "notes.md", "readme.txt"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d entries, got %d: %v", len(expected), len(names), names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, names[i])
		}
	}

	if !m.entries[0].IsFolder || !m.entries[1].IsFolder {
		t.Error("expected the first two entries to be folders")
	}
	if m.entries[2].IsFolder {
		t.Error("expected files after folders")
	}
}

func TestEnterFolderAndBack(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	// Cursor starts on the "docs" folder.
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.state.PathKey(); got != "docs" {
		t.Fatalf("expected path 'docs', got %q", got)
	}
	if m.state.Page != 1 {
		t.Errorf("expected page reset to 1, got %d", m.state.Page)
	}

	names := entryNames(m)
	expected := []string{"archive", "guide.pdf"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, names[i])
		}
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.state.PathKey(); got != "" {
		t.Errorf("expected root after back, got %q", got)
	}

	// Back at the root is a no-op.
	press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.state.PathKey(); got != "" {
		t.Errorf("expected root to stay put, got %q", got)
	}
}

func TestPageNavigation(t *testing.T) {
	records := make([]catalog.Record, 0, 250)
	for i := 0; i < 250; i++ {
		records = append(records, catalog.Record{
			Name:   fmt.Sprintf("f%03d.bin", i),
			URL:    fmt.Sprintf("https://host/f%03d.bin", i),
			Length: int64(10 + i),
		})
	}

	m := newTestModel(t, records, Options{PageSize: 100})
	runCmds(t, m, m.evaluate())

	if m.page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", m.page.TotalPages)
	}
	if len(m.entries) != 100 {
		t.Fatalf("expected 100 entries on page 1, got %d", len(m.entries))
	}

	pressRune(t, m, 'n')
	if m.page.Number != 2 {
		t.Errorf("expected page 2, got %d", m.page.Number)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.page.Number != 3 {
		t.Errorf("expected last page, got %d", m.page.Number)
	}
	if len(m.entries) != 50 {
		t.Errorf("expected 50 entries on the last page, got %d", len(m.entries))
	}

	// Next on the last page stays put.
	pressRune(t, m, 'n')
	if m.page.Number != 3 {
		t.Errorf("expected to stay on page 3, got %d", m.page.Number)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	if m.page.Number != 1 {
		t.Errorf("expected first page, got %d", m.page.Number)
	}

	// Prev on the first page stays put.
	pressRune(t, m, 'p')
	if m.page.Number != 1 {
		t.Errorf("expected to stay on page 1, got %d", m.page.Number)
	}
}

func TestStaleResultIgnored(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})

	stale := m.evaluate()
	fresh := m.evaluate()

	m.Update(stale())
	if len(m.entries) != 0 {
		t.Fatal("expected stale result to be discarded")
	}

	m.Update(fresh())
	if len(m.entries) == 0 {
		t.Fatal("expected fresh result to be applied")
	}
}

func TestSearchFlow(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	// Update directly: the returned blink command never terminates.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.mode != ModeSearch {
		t.Fatalf("expected search mode, got %v", m.mode)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("guide")})
	if got := m.textInput.Value(); got != "guide" {
		t.Fatalf("expected input 'guide', got %q", got)
	}

	// Simulate the debounce tick firing.
	_, cmd := m.Update(searchDebounceMsg{gen: m.searchGen})
	runCmds(t, m, cmd)

	if m.state.SearchText != "guide" {
		t.Fatalf("expected search applied, got %q", m.state.SearchText)
	}
	names := entryNames(m)
	if len(names) != 1 || names[0] != "docs/guide.pdf" {
		t.Fatalf("expected the search hit with its full path, got %v", names)
	}

	// Commit the search, then open the hit: it jumps to the parent
	// folder and clears the search.
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode after commit, got %v", m.mode)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.state.PathKey(); got != "docs" {
		t.Errorf("expected jump to 'docs', got %q", got)
	}
	if m.state.SearchText != "" {
		t.Errorf("expected search cleared after jump, got %q", m.state.SearchText)
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("gui")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("de")})

	// A tick scheduled before the last keystroke must not apply.
	_, cmd := m.Update(searchDebounceMsg{gen: m.searchGen - 1})
	if cmd != nil {
		t.Fatal("expected stale debounce to be dropped")
	}
	if m.state.SearchText != "" {
		t.Fatalf("expected search not yet applied, got %q", m.state.SearchText)
	}
}

func TestEscClearsSearch(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pdf")})
	_, cmd := m.Update(searchDebounceMsg{gen: m.searchGen})
	runCmds(t, m, cmd)
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.state.SearchText != "pdf" {
		t.Fatalf("expected committed search, got %q", m.state.SearchText)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.state.SearchText != "" {
		t.Errorf("expected search cleared, got %q", m.state.SearchText)
	}
	if names := entryNames(m); len(names) != 4 {
		t.Errorf("expected the full root listing back, got %v", names)
	}
}

func TestTypeFilterToggle(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	pressRune(t, m, 'f')
	if m.mode != ModeFilter {
		t.Fatalf("expected filter mode, got %v", m.mode)
	}
	if len(m.labels) == 0 {
		t.Fatal("expected label counts")
	}

	// PDF has two records, making it the top row.
	if m.labels[0].label != "PDF" || m.labels[0].count != 2 {
		t.Fatalf("expected PDF x2 first, got %+v", m.labels[0])
	}

	press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if _, ok := m.state.TypeLabels["PDF"]; !ok {
		t.Fatal("expected PDF toggled on")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode, got %v", m.mode)
	}

	// Only the docs folder survives: music holds no PDFs.
	names := entryNames(m)
	expected := []string{"docs"}
	if len(names) != 1 || names[0] != expected[0] {
		t.Fatalf("expected %v, got %v", expected, names)
	}

	pressRune(t, m, 'f')
	pressRune(t, m, 'c')
	if len(m.state.TypeLabels) != 0 {
		t.Error("expected filter cleared")
	}
}

func TestSortCycle(t *testing.T) {
	keys := []query.SortKey{
		query.SortModifiedDesc,
		query.SortModifiedAsc,
		query.SortSizeDesc,
		query.SortSizeAsc,
		query.SortNameAsc,
	}
	k := query.SortModifiedDesc
	for i := 1; i < len(keys); i++ {
		k = nextSortKey(k)
		if k != keys[i] {
			t.Fatalf("step %d: expected %v, got %v", i, keys[i], k)
		}
	}
	if k = nextSortKey(k); k != query.SortModifiedDesc {
		t.Errorf("expected cycle back to modified-desc, got %v", k)
	}
}

func TestSortKeyReorders(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	pressRune(t, m, 's')
	if m.state.Sort != query.SortModifiedAsc {
		t.Fatalf("expected modified-asc, got %v", m.state.Sort)
	}

	names := entryNames(m)
	// Oldest root file first now.
	if names[2] != "readme.txt" {
		t.Errorf("expected readme.txt first among files, got %v", names)
	}
}

func TestListingRefreshed(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	replacement := []catalog.Record{
		{Name: "fresh.csv", URL: "https://host/fresh.csv", Length: 77},
	}
	_, cmd := m.Update(ListingRefreshedMsg{Records: replacement})
	runCmds(t, m, cmd)

	names := entryNames(m)
	if len(names) != 1 || names[0] != "fresh.csv" {
		t.Fatalf("expected the refreshed listing, got %v", names)
	}
	if !strings.Contains(m.statusMsg, "1 records") {
		t.Errorf("expected refresh status, got %q", m.statusMsg)
	}
}

func TestOpenFileShowsURL(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	// Move past the two folders onto the first file.
	pressRune(t, m, 'j')
	pressRune(t, m, 'j')
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.state.PathKey(); got != "" {
		t.Errorf("expected to stay at the root, got %q", got)
	}
	if !strings.Contains(m.statusMsg, "https://host/notes.md") {
		t.Errorf("expected the file URL in the status, got %q", m.statusMsg)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	pressRune(t, m, 'k')
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", m.cursor)
	}

	for i := 0; i < 10; i++ {
		pressRune(t, m, 'j')
	}
	if m.cursor != len(m.entries)-1 {
		t.Errorf("expected cursor clamped at %d, got %d", len(m.entries)-1, m.cursor)
	}
}

func TestFavoritePattern(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})

	m.state.SetSearch("reports")
	if got := m.favoritePattern(); got != "reports" {
		t.Errorf("expected the search text, got %q", got)
	}

	m.state.SetSearch("")
	m.state.SetPath([]string{"docs", "archive"})
	if got := m.favoritePattern(); got != "^docs/archive$" {
		t.Errorf("expected exact folder pattern, got %q", got)
	}

	m.state.SetPath(nil)
	if got := m.favoritePattern(); got != "" {
		t.Errorf("expected no pattern at the root, got %q", got)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	store, err := cache.Open(context.Background(), cache.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	defer func() { _ = store.Close() }()

	records := append(testRecords(), catalog.Record{
		Name: "reports/2025/q1.xlsx", URL: "https://host/reports/2025/q1.xlsx", Length: 900,
	})
	m := newTestModel(t, records, Options{Favorites: store})
	runCmds(t, m, m.evaluate())

	// Save the current search as a favorite.
	m.state.SetSearch("reports")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'B'}})
	if m.mode != ModeSaveFavorite {
		t.Fatalf("expected save mode, got %v", m.mode)
	}
	m.textInput.SetValue("quarterlies")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.statusMsg, "quarterlies") {
		t.Fatalf("expected save confirmation, got %q", m.statusMsg)
	}

	// Open the panel and run it.
	pressRune(t, m, 'b')
	if m.mode != ModeFavorites {
		t.Fatalf("expected favorites mode, got %v", m.mode)
	}
	if len(m.favorites) != 1 || m.favorites[0].Name != "quarterlies" {
		t.Fatalf("expected the saved favorite, got %+v", m.favorites)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.favMatches) != 1 || m.favMatches[0] != "reports" {
		t.Fatalf("expected matched folder 'reports', got %v", m.favMatches)
	}

	// Enter navigates to the matched folder.
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode, got %v", m.mode)
	}
	if got := m.state.PathKey(); got != "reports" {
		t.Errorf("expected path 'reports', got %q", got)
	}

	// Delete it.
	pressRune(t, m, 'b')
	pressRune(t, m, 'd')
	if len(m.favorites) != 0 {
		t.Errorf("expected favorites empty after delete, got %+v", m.favorites)
	}
}

func TestFavoritesWithoutCache(t *testing.T) {
	m := newTestModel(t, testRecords(), Options{})
	runCmds(t, m, m.evaluate())

	pressRune(t, m, 'b')
	if m.mode != ModeNormal {
		t.Fatalf("expected to stay in normal mode, got %v", m.mode)
	}
	if m.errorMsg == "" {
		t.Error("expected an error message about the cache")
	}
}
