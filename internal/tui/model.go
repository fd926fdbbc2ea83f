// Package tui implements the interactive terminal browser over the
// query engine. The model follows the bubbletea update loop: all state
// lives here, views render it, and slow work runs in commands.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/cache"
	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/pager"
	"github.com/blobnav/blobnav/pkg/query"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeSaveFavorite
	ModeFilter
	ModeFavorites
	ModeHelp
)

const (
	// searchDebounce is how long typing must pause before the search
	// re-evaluates.
	searchDebounce = 200 * time.Millisecond

	// refreshTimeout bounds a manual listing refresh.
	refreshTimeout = 2 * time.Minute
)

// RefreshFunc fetches a fresh record list from the listing source.
type RefreshFunc func(ctx context.Context) ([]catalog.Record, error)

// Options configures the browser model.
type Options struct {
	// SourceID names the listing source in the title bar.
	SourceID string

	// PageSize is the number of rows per result page.
	PageSize int

	// DateFormat is the layout for the modified column.
	DateFormat string

	// Favorites persists saved folder views. May be nil when the cache
	// is disabled; the favorites panel then reports that instead.
	Favorites *cache.Store

	// Refresh refetches the listing for the refresh key. May be nil.
	Refresh RefreshFunc
}

// labelCount is one row of the type filter panel.
type labelCount struct {
	label string
	count int
}

// Model represents the state of the browser.
type Model struct {
	// Core components
	engine   *query.Engine
	favStore *cache.Store
	refresh  RefreshFunc
	theme    *Theme
	keys     KeyMap
	help     help.Model

	// Query state
	state  query.State
	result query.Result
	page   pager.Page[query.Item]

	// List state
	entries []*Entry
	cursor  int
	offset  int

	// View state
	width    int
	height   int
	sourceID string

	// Mode state
	mode      Mode
	textInput textinput.Model

	// Generation counters so stale async results are discarded
	evalGen   int
	searchGen int

	// Type filter panel
	labels       []labelCount
	filterCursor int

	// Favorites panel
	favorites   []cache.Favorite
	favCursor   int
	favMatches  []string
	matchCursor int
	favPattern  string

	// Status
	statusMsg string
	errorMsg  string

	// Display settings
	pageSize   int
	dateFormat string
}

// NewModel creates a browser over engine.
func NewModel(engine *query.Engine, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}
	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = "Jan _2 2006 15:04"
	}
	sourceID := opts.SourceID
	if sourceID == "" {
		sourceID = "listing"
	}

	return &Model{
		engine:     engine,
		favStore:   opts.Favorites,
		refresh:    opts.Refresh,
		theme:      DefaultTheme(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		state:      query.NewState(),
		textInput:  ti,
		sourceID:   sourceID,
		pageSize:   pageSize,
		dateFormat: dateFormat,
	}
}

// Init runs the first evaluation.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.evaluate(), textinput.Blink)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resultsMsg:
		if msg.gen != m.evalGen {
			logger.Debug("Ignoring stale result (gen %d, current %d)", msg.gen, m.evalGen)
			return m, nil
		}
		m.result = msg.result
		m.errorMsg = ""
		m.applyPage()
		return m, nil

	case searchDebounceMsg:
		if msg.gen != m.searchGen {
			return m, nil
		}
		m.state.SetSearch(strings.TrimSpace(m.textInput.Value()))
		m.cursor, m.offset = 0, 0
		return m, m.evaluate()

	case ListingRefreshedMsg:
		m.engine.Reload(msg.Records)
		m.statusMsg = fmt.Sprintf("Listing refreshed: %d records", len(msg.Records))
		return m, m.evaluate()

	case favoritesLoadedMsg:
		m.favorites = msg.favorites
		if m.favCursor >= len(m.favorites) {
			m.favCursor = len(m.favorites) - 1
		}
		if m.favCursor < 0 {
			m.favCursor = 0
		}
		return m, nil

	case favoriteSavedMsg:
		m.statusMsg = fmt.Sprintf("Saved favorite %q", msg.name)
		return m, nil

	case errorMsg:
		m.errorMsg = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Forward the rest (cursor blinks) to the text input when visible.
	if m.mode == ModeSearch || m.mode == ModeSaveFavorite {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input based on current mode.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeSaveFavorite:
		return m.handleSaveMode(msg)
	case ModeFilter:
		return m.handleFilterMode(msg)
	case ModeFavorites:
		return m.handleFavoritesMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}

	return m, nil
}

// handleNormalMode processes keys in normal browsing mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.setPage(pager.Next(m.state.Page, m.page.TotalPages))
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.setPage(pager.Prev(m.state.Page))
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		m.setPage(pager.First())
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		m.setPage(pager.Last(m.page.TotalPages))
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m, m.openSelection()

	case key.Matches(msg, m.keys.Back):
		return m, m.goBack()

	case key.Matches(msg, m.keys.ClearSearch):
		if m.state.SearchText == "" {
			return m, nil
		}
		m.clearSearch()
		return m, m.evaluate()

	case key.Matches(msg, m.keys.Search):
		m.startSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Filter):
		m.openFilter()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.state.Sort = nextSortKey(m.state.Sort)
		m.statusMsg = fmt.Sprintf("Sort: %s", m.state.Sort)
		return m, m.evaluate()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshListing()

	case key.Matches(msg, m.keys.Favorites):
		return m, m.openFavorites()

	case key.Matches(msg, m.keys.Save):
		m.startSaveFavorite()
		return m, textinput.Blink
	}

	return m, nil
}

// handleSearchMode processes keys while the search input is focused.
// Typing re-evaluates after a short pause; enter commits, escape
// clears the search entirely.
func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.clearSearch()
		m.mode = ModeNormal
		m.textInput.Blur()
		return m, m.evaluate()

	case tea.KeyEnter:
		m.searchGen++
		m.mode = ModeNormal
		m.textInput.Blur()
		m.state.SetSearch(strings.TrimSpace(m.textInput.Value()))
		m.cursor, m.offset = 0, 0
		return m, m.evaluate()
	}

	previous := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() == previous {
		return m, cmd
	}

	m.searchGen++
	gen := m.searchGen
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen}
	})
	return m, tea.Batch(cmd, debounce)
}

// handleSaveMode collects the name for a new favorite.
func (m *Model) handleSaveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.textInput.Blur()
		m.textInput.SetValue("")
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.textInput.Value())
		m.mode = ModeNormal
		m.textInput.Blur()
		m.textInput.SetValue("")
		if name == "" {
			return m, nil
		}
		return m, m.saveFavorite(name)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleFilterMode processes keys in the type filter panel.
func (m *Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.filterCursor > 0 {
			m.filterCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.filterCursor < len(m.labels)-1 {
			m.filterCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil

	case " ", "enter":
		if m.filterCursor < len(m.labels) {
			m.state.ToggleLabel(m.labels[m.filterCursor].label)
			return m, m.evaluate()
		}
		return m, nil

	case "c":
		m.state.ClearLabels()
		return m, m.evaluate()
	}

	return m, nil
}

// handleFavoritesMode processes keys in the favorites panel. The panel
// has two levels: the saved favorites, and the folders the selected
// favorite matched.
func (m *Model) handleFavoritesMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	onMatches := m.favMatches != nil

	switch {
	case key.Matches(msg, m.keys.Up):
		if onMatches {
			if m.matchCursor > 0 {
				m.matchCursor--
			}
		} else if m.favCursor > 0 {
			m.favCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if onMatches {
			if m.matchCursor < len(m.favMatches)-1 {
				m.matchCursor++
			}
		} else if m.favCursor < len(m.favorites)-1 {
			m.favCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		m.closeFavorites()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if onMatches {
			return m, m.openMatchedFolder()
		}
		m.runFavorite()
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if onMatches {
			m.favMatches = nil
			m.matchCursor = 0
			return m, nil
		}
		m.closeFavorites()
		return m, nil

	case "d":
		if !onMatches && m.favCursor < len(m.favorites) {
			return m, m.deleteFavorite(m.favorites[m.favCursor].Name)
		}
		return m, nil
	}

	return m, nil
}

// handleHelpMode processes keys in help mode.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	}
	if msg.String() == "esc" {
		m.mode = ModeNormal
	}
	return m, nil
}

// startSearch enters search mode with the current search text loaded.
func (m *Model) startSearch() {
	m.mode = ModeSearch
	m.textInput.Placeholder = "Search..."
	m.textInput.SetValue(m.state.SearchText)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""
}

// startSaveFavorite enters the favorite name prompt. The pattern is
// captured now so later navigation cannot change what gets saved.
func (m *Model) startSaveFavorite() {
	if m.favStore == nil {
		m.errorMsg = "Favorites require the listing cache to be enabled"
		return
	}
	pattern := m.favoritePattern()
	if pattern == "" {
		m.errorMsg = "Enter a search or open a folder before saving a favorite"
		return
	}
	m.favPattern = pattern
	m.mode = ModeSaveFavorite
	m.textInput.Placeholder = "Favorite name..."
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""
}

// favoritePattern derives the folder pattern for a new favorite: the
// active search text when searching, otherwise the current folder as
// an exact match. At the root with no search there is nothing to save.
func (m *Model) favoritePattern() string {
	if m.state.SearchText != "" {
		return m.state.SearchText
	}
	pathKey := m.state.PathKey()
	if pathKey == "" {
		return ""
	}
	return "^" + regexp.QuoteMeta(pathKey) + "$"
}

// clearSearch drops the active search and any pending debounce.
func (m *Model) clearSearch() {
	m.searchGen++
	m.state.SetSearch("")
	m.textInput.SetValue("")
	m.cursor, m.offset = 0, 0
}

// openFilter builds the label list and enters the filter panel.
func (m *Model) openFilter() {
	counts := m.engine.LabelCounts()
	labels := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		labels = append(labels, labelCount{label: label, count: count})
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].count != labels[j].count {
			return labels[i].count > labels[j].count
		}
		return labels[i].label < labels[j].label
	})

	m.labels = labels
	m.filterCursor = 0
	m.mode = ModeFilter
	m.errorMsg = ""
	m.statusMsg = ""
}

// openFavorites loads the saved favorites and enters the panel.
func (m *Model) openFavorites() tea.Cmd {
	if m.favStore == nil {
		m.errorMsg = "Favorites require the listing cache to be enabled"
		return nil
	}
	m.mode = ModeFavorites
	m.favMatches = nil
	m.matchCursor = 0
	m.errorMsg = ""
	m.statusMsg = ""
	return m.loadFavorites()
}

func (m *Model) closeFavorites() {
	m.mode = ModeNormal
	m.favMatches = nil
	m.matchCursor = 0
}

// runFavorite resolves the selected favorite against the live index.
func (m *Model) runFavorite() {
	if m.favCursor >= len(m.favorites) {
		return
	}
	fav := m.favorites[m.favCursor]
	matches := m.engine.MatchFolders(fav.Pattern, fav.Limit, query.OrderFromString(fav.SortOrder))
	if len(matches) == 0 {
		m.statusMsg = fmt.Sprintf("No folders match %q", fav.Pattern)
		return
	}
	m.favMatches = matches
	m.matchCursor = 0
}

// openMatchedFolder navigates to the selected matched folder.
func (m *Model) openMatchedFolder() tea.Cmd {
	if m.matchCursor >= len(m.favMatches) {
		return nil
	}
	folder := m.favMatches[m.matchCursor]
	m.closeFavorites()
	m.clearSearch()
	m.state.SetPath(strings.Split(folder, "/"))
	return m.evaluate()
}

// openSelection acts on the selected row: folders are entered, files
// in a search result jump to their parent folder, and files in a
// normal listing show their URL.
func (m *Model) openSelection() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	if entry.IsFolder {
		m.state.EnterFolder(entry.Name)
		m.cursor, m.offset = 0, 0
		return m.evaluate()
	}

	if m.state.SearchText != "" {
		dir := entry.Record.Dir()
		m.clearSearch()
		if dir == "" {
			m.state.SetPath(nil)
		} else {
			m.state.SetPath(strings.Split(dir, "/"))
		}
		return m.evaluate()
	}

	m.statusMsg = fmt.Sprintf("URL: %s", entry.Record.URL)
	return nil
}

// goBack clears an active search first; without one it ascends to the
// parent folder.
func (m *Model) goBack() tea.Cmd {
	if m.state.SearchText != "" {
		m.clearSearch()
		return m.evaluate()
	}
	if len(m.state.Path) == 0 {
		return nil
	}
	m.state.UpFolder()
	m.cursor, m.offset = 0, 0
	return m.evaluate()
}

// setPage re-slices the current result at the given page number.
func (m *Model) setPage(number int) {
	if number == m.state.Page || number < 1 {
		return
	}
	m.state.Page = number
	m.cursor, m.offset = 0, 0
	m.applyPage()
}

// applyPage paginates the current result and rebuilds the visible
// entries. The clamped page number is written back so the state never
// points past the end.
func (m *Model) applyPage() {
	m.page = pager.Paginate(m.result.Items, m.state.Page, m.pageSize)
	if m.page.Number > 0 {
		m.state.Page = m.page.Number
	}
	m.entries = m.buildEntries(m.page.Items)

	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// buildEntries resolves display attributes for one page of items. In a
// folder listing files show their base name; search results keep the
// full path so hits can be told apart.
func (m *Model) buildEntries(items []query.Item) []*Entry {
	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		entry := &Entry{Name: item.Name, IsFolder: item.Folder, Record: item.Record}
		if !item.Folder {
			entry.Type = m.engine.Classify(item.Record)
			if m.state.SearchText == "" {
				entry.Name = item.Record.Base()
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// moveCursor moves the cursor by delta, handling bounds and scrolling.
func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}

	m.cursor += delta

	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}

	visibleLines := m.getVisibleLines()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
}

// getVisibleLines returns how many rows fit in the list area.
func (m *Model) getVisibleLines() int {
	// Reserve space for title, column header, status bar, input and
	// help lines.
	reserved := 8
	available := m.height - reserved
	if available < 5 {
		return 5
	}
	return available
}

// currentEntry returns the currently selected entry.
func (m *Model) currentEntry() *Entry {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor]
	}
	return nil
}

// nextSortKey cycles through the file orderings.
func nextSortKey(k query.SortKey) query.SortKey {
	switch k {
	case query.SortModifiedDesc:
		return query.SortModifiedAsc
	case query.SortModifiedAsc:
		return query.SortSizeDesc
	case query.SortSizeDesc:
		return query.SortSizeAsc
	case query.SortSizeAsc:
		return query.SortNameAsc
	default:
		return query.SortModifiedDesc
	}
}

// Messages for async operations.

// ListingRefreshedMsg carries a fresh record list into the running
// program. The background refresher posts it with Program.Send; manual
// refreshes produce it too.
type ListingRefreshedMsg struct {
	Records []catalog.Record
}

type resultsMsg struct {
	result query.Result
	gen    int
}

type searchDebounceMsg struct {
	gen int
}

type favoritesLoadedMsg struct {
	favorites []cache.Favorite
}

type favoriteSavedMsg struct {
	name string
}

type errorMsg string

// Commands for async operations.

// evaluate runs the engine on a snapshot of the current state.
func (m *Model) evaluate() tea.Cmd {
	m.evalGen++
	gen := m.evalGen
	state := m.state.Clone()
	return func() tea.Msg {
		return resultsMsg{result: m.engine.Evaluate(state), gen: gen}
	}
}

// refreshListing refetches the record list from the source.
func (m *Model) refreshListing() tea.Cmd {
	if m.refresh == nil {
		return m.evaluate()
	}

	m.statusMsg = "Refreshing listing..."
	refresh := m.refresh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		records, err := refresh(ctx)
		if err != nil {
			logger.Warn("Manual refresh failed: %v", err)
			return errorMsg(fmt.Sprintf("Refresh failed: %v", err))
		}
		return ListingRefreshedMsg{Records: records}
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	store := m.favStore
	return func() tea.Msg {
		favorites, err := store.ListFavorites()
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load favorites: %v", err))
		}
		return favoritesLoadedMsg{favorites: favorites}
	}
}

func (m *Model) saveFavorite(name string) tea.Cmd {
	store := m.favStore
	fav := cache.Favorite{
		Name:      name,
		Pattern:   m.favPattern,
		SortOrder: query.OrderAsc.String(),
	}
	return func() tea.Msg {
		if err := store.PutFavorite(fav); err != nil {
			return errorMsg(fmt.Sprintf("Failed to save favorite: %v", err))
		}
		return favoriteSavedMsg{name: name}
	}
}

func (m *Model) deleteFavorite(name string) tea.Cmd {
	store := m.favStore
	load := m.loadFavorites()
	return func() tea.Msg {
		if err := store.DeleteFavorite(name); err != nil {
			return errorMsg(fmt.Sprintf("Failed to delete favorite: %v", err))
		}
		return load()
	}
}
