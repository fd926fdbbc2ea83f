package query

import (
	"testing"

	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/index"
	"github.com/stretchr/testify/require"
)

func testEngine(records []catalog.Record) *Engine {
	e := NewEngine(catalog.NewStore(), index.New(), nil)
	e.Reload(records)
	return e
}

func scenarioRecords() []catalog.Record {
	return []catalog.Record{
		{Name: "docs/readme.txt", URL: "u://docs/readme.txt", Length: 500},
		{Name: "docs/guide.pdf", URL: "u://docs/guide.pdf", Length: 1000},
		{Name: "bin/app.exe", URL: "u://bin/app.exe", Length: 2000},
	}
}

func itemNames(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

func TestBrowseRootFoldersBeforeFiles(t *testing.T) {
	e := testEngine(scenarioRecords())
	state := NewState()
	state.Sort = SortNameAsc

	res := e.Evaluate(state)
	require.False(t, res.FolderMissing)
	require.Equal(t, 2, res.Total)
	require.Equal(t, []string{"bin", "docs"}, itemNames(res.Items))
	require.True(t, res.Items[0].Folder)
	require.True(t, res.Items[1].Folder)
}

func TestBrowseSizeDescending(t *testing.T) {
	e := testEngine(scenarioRecords())
	state := NewState()
	state.SetPath([]string{"docs"})
	state.Sort = SortSizeDesc

	res := e.Evaluate(state)
	require.Equal(t, []string{"docs/guide.pdf", "docs/readme.txt"}, itemNames(res.Items))

	state.Sort = SortSizeAsc
	res = e.Evaluate(state)
	require.Equal(t, []string{"docs/readme.txt", "docs/guide.pdf"}, itemNames(res.Items))
}

func TestBrowseMissingFolder(t *testing.T) {
	e := testEngine(scenarioRecords())
	state := NewState()
	state.SetPath([]string{"nope"})

	res := e.Evaluate(state)
	require.True(t, res.FolderMissing)
	require.Empty(t, res.Items)
	require.Equal(t, 0, res.Total)
}

func TestZeroByteRecordsNeverListed(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "data/real.csv", URL: "u://data/real.csv", Length: 10},
		{Name: "data/marker", URL: "u://data/marker", Length: 0},
		{Name: "empty/placeholder.txt", URL: "u://empty/placeholder.txt", Length: 0},
	})

	state := NewState()
	state.SetPath([]string{"data"})
	res := e.Evaluate(state)
	require.Equal(t, []string{"data/real.csv"}, itemNames(res.Items))

	// A folder holding only zero length records is pruned entirely.
	state = NewState()
	res = e.Evaluate(state)
	require.Equal(t, []string{"data"}, itemNames(res.Items))

	// Search mode applies the same exclusion.
	state = NewState()
	state.SetSearch("placeholder")
	res = e.Evaluate(state)
	require.Empty(t, res.Items)
}

func TestFolderPruningWithTypeFilter(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "a/b/x.pdf", URL: "u://a/b/x.pdf", Length: 10},
		{Name: "a/c/y.zip", URL: "u://a/c/y.zip", Length: 10},
	})

	state := NewState()
	state.SetPath([]string{"a"})
	state.ToggleLabel("ZIP")

	res := e.Evaluate(state)
	require.Equal(t, []string{"c"}, itemNames(res.Items))
	require.True(t, res.Items[0].Folder)
}

func TestEmptyTypeFilterAcceptsAll(t *testing.T) {
	e := testEngine(scenarioRecords())

	unfiltered := NewState()
	unfiltered.Sort = SortNameAsc

	everything := NewState()
	everything.Sort = SortNameAsc
	everything.ToggleLabel("TXT")
	everything.ToggleLabel("PDF")
	everything.ToggleLabel("EXE")

	require.Equal(t,
		itemNames(e.Evaluate(unfiltered).Items),
		itemNames(e.Evaluate(everything).Items))
}

func TestSearchIsFlat(t *testing.T) {
	e := testEngine(scenarioRecords())
	state := NewState()
	state.SetSearch("e")

	res := e.Evaluate(state)
	require.NotEmpty(t, res.Items)
	for _, it := range res.Items {
		require.False(t, it.Folder)
	}
}

func TestSearchBrowseEquivalenceAtRoot(t *testing.T) {
	records := scenarioRecords()
	e := testEngine(records)

	// Search with a match-everything regex.
	state := NewState()
	state.SetSearch("/.")
	searched := e.Evaluate(state)

	found := make(map[string]bool)
	for _, it := range searched.Items {
		found[it.Record.Name] = true
	}

	// Browse from the root and collect every file recursively.
	collected := make(map[string]bool)
	var walk func(path []string)
	walk = func(path []string) {
		s := NewState()
		s.SetPath(path)
		for _, it := range e.Evaluate(s).Items {
			if it.Folder {
				walk(append(append([]string(nil), path...), it.Name))
			} else {
				collected[it.Record.Name] = true
			}
		}
	}
	walk(nil)

	require.Equal(t, collected, found)
}

func TestModifiedSortWithStableTies(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "d/first.txt", URL: "u1", Length: 1, LastModified: "Mon, 02 Jan 2023 10:00:00 GMT"},
		{Name: "d/newer.txt", URL: "u2", Length: 1, LastModified: "Tue, 02 Jan 2024 10:00:00 GMT"},
		{Name: "d/second.txt", URL: "u3", Length: 1, LastModified: "Mon, 02 Jan 2023 10:00:00 GMT"},
	})

	state := NewState()
	state.SetPath([]string{"d"})
	state.Sort = SortModifiedDesc
	res := e.Evaluate(state)
	// The tied 2023 records keep their listing order.
	require.Equal(t, []string{"d/newer.txt", "d/first.txt", "d/second.txt"}, itemNames(res.Items))

	state.Sort = SortModifiedAsc
	res = e.Evaluate(state)
	require.Equal(t, []string{"d/first.txt", "d/second.txt", "d/newer.txt"}, itemNames(res.Items))
}

func TestUnparseableTimestampsDoNotPanic(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "d/bad.txt", URL: "u1", Length: 1, LastModified: "not a date"},
		{Name: "d/good.txt", URL: "u2", Length: 1, LastModified: "Tue, 02 Jan 2024 10:00:00 GMT"},
	})

	state := NewState()
	state.SetPath([]string{"d"})
	state.Sort = SortModifiedDesc

	res := e.Evaluate(state)
	// Unparseable timestamps sort as the zero instant, behind real ones.
	require.Equal(t, []string{"d/good.txt", "d/bad.txt"}, itemNames(res.Items))
}

func TestNameSortIgnoresCase(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "d/Banana.txt", URL: "u1", Length: 1},
		{Name: "d/apple.txt", URL: "u2", Length: 1},
		{Name: "d/cherry.txt", URL: "u3", Length: 1},
	})

	state := NewState()
	state.SetPath([]string{"d"})
	state.Sort = SortNameAsc

	res := e.Evaluate(state)
	require.Equal(t, []string{"d/apple.txt", "d/Banana.txt", "d/cherry.txt"}, itemNames(res.Items))
}

func TestLabelCounts(t *testing.T) {
	e := testEngine([]catalog.Record{
		{Name: "p/a.jpg", URL: "u1", Length: 1},
		{Name: "p/b.jpeg", URL: "u2", Length: 1},
		{Name: "p/c.zip", URL: "u3", Length: 1},
		{Name: "p/empty.zip", URL: "u4", Length: 0},
	})

	counts := e.LabelCounts()
	require.Equal(t, 2, counts["JPG"])
	require.Equal(t, 1, counts["ZIP"])
}

func TestStateSettersResetPage(t *testing.T) {
	state := NewState()
	state.Page = 7
	state.SetSearch("query")
	require.Equal(t, 1, state.Page)

	state.Page = 7
	state.EnterFolder("docs")
	require.Equal(t, 1, state.Page)
	require.Equal(t, "docs", state.PathKey())

	state.Page = 7
	state.UpFolder()
	require.Equal(t, 1, state.Page)
	require.Empty(t, state.Path)

	// At the root UpFolder is a no-op and keeps the page.
	state.Page = 7
	state.UpFolder()
	require.Equal(t, 7, state.Page)

	// Toggling a label leaves the page alone; pagination clamps it.
	state.ToggleLabel("PDF")
	require.Equal(t, 7, state.Page)
	require.Contains(t, state.TypeLabels, "PDF")
	state.ToggleLabel("PDF")
	require.NotContains(t, state.TypeLabels, "PDF")
}
