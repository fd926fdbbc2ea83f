package query

import (
	"sort"

	"github.com/blobnav/blobnav/pkg/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortFiles orders files in place by key. Every sort is stable, so
// records with equal keys keep their listing order.
func sortFiles(files []catalog.Record, key SortKey) {
	switch key {
	case SortModifiedDesc:
		sortByModified(files, false)
	case SortModifiedAsc:
		sortByModified(files, true)
	case SortSizeDesc:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Length > files[j].Length
		})
	case SortSizeAsc:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Length < files[j].Length
		})
	case SortNameAsc:
		// A collator is stateful, so each sort builds its own.
		cl := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(files, func(i, j int) bool {
			return cl.CompareString(files[i].Base(), files[j].Base()) < 0
		})
	}
}

// sortByModified decorates records with their parsed instant so each
// timestamp is parsed once per sort. Unparseable timestamps count as
// the zero instant, which keeps the comparison total: they sink to the
// old end instead of breaking the sort.
func sortByModified(files []catalog.Record, ascending bool) {
	type entry struct {
		rec catalog.Record
		ns  int64
	}
	entries := make([]entry, len(files))
	for i, f := range files {
		t, _ := f.ModTime()
		entries[i] = entry{rec: f, ns: t.UnixNano()}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].ns < entries[j].ns
		}
		return entries[i].ns > entries[j].ns
	})
	for i, e := range entries {
		files[i] = e.rec
	}
}
