package query

import (
	"sort"
	"strings"
	"time"

	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/index"
	"github.com/blobnav/blobnav/pkg/metrics"
)

// Item is one row of an evaluated listing: either a folder or a file.
type Item struct {
	// Folder marks folder rows. Name then holds the immediate folder
	// name and Record is zero.
	Folder bool

	// Name is the folder name for folder rows and the full record path
	// for file rows.
	Name string

	// Record is the underlying record for file rows.
	Record catalog.Record
}

// Result is a fully evaluated listing before pagination.
type Result struct {
	// Items holds folders first (browse mode only), then files, both in
	// display order.
	Items []Item

	// Total is the number of items before pagination.
	Total int

	// FolderMissing is set when browse mode addressed a folder that
	// does not exist. Distinct from a folder that exists but filtered
	// down to nothing.
	FolderMissing bool
}

// Engine evaluates query states against a record store and folder
// index.
type Engine struct {
	store   *catalog.Store
	index   *index.Index
	metrics metrics.QueryMetrics
}

// noopQueryMetrics provides a local no-op implementation when the metrics
// package is not used.
type noopQueryMetrics struct{}

func (noopQueryMetrics) RecordEvaluate(mode string, duration time.Duration, results int) {}
func (noopQueryMetrics) RecordRebuild(duration time.Duration, records int, folders int)  {}

// NewEngine creates an engine over store and idx. queryMetrics may be
// nil to disable metrics collection.
func NewEngine(store *catalog.Store, idx *index.Index, queryMetrics metrics.QueryMetrics) *Engine {
	if queryMetrics == nil {
		queryMetrics = &noopQueryMetrics{}
	}
	return &Engine{store: store, index: idx, metrics: queryMetrics}
}

// Reload replaces the record set and rebuilds the folder index from it.
// The two swaps are not a single atomic step, but both structures swap
// whole snapshots, so a reader in between sees the new records with the
// old tree at worst for one evaluation.
func (e *Engine) Reload(records []catalog.Record) {
	start := time.Now()
	e.store.Load(records)
	e.index.Rebuild(records)
	e.metrics.RecordRebuild(time.Since(start), len(records), e.index.FolderCount())
}

// Evaluate computes the ordered listing for state. A non-empty search
// text selects search mode, which scans the whole flat record list;
// otherwise browse mode lists the folder at state.Path. Evaluate never
// fails: bad folder paths report FolderMissing and bad search patterns
// degrade to literal matching.
func (e *Engine) Evaluate(state State) Result {
	start := time.Now()

	pred := e.recordPredicate(state.TypeLabels)
	var (
		res  Result
		mode string
	)
	if state.SearchText != "" {
		mode = "search"
		res = e.search(state, pred)
	} else {
		mode = "browse"
		res = e.browse(state, pred)
	}

	e.metrics.RecordEvaluate(mode, time.Since(start), res.Total)
	return res
}

// recordPredicate combines the type filter with the zero byte
// exclusion. Zero length records are never listed; an empty label set
// accepts every type.
func (e *Engine) recordPredicate(labels map[string]struct{}) func(catalog.Record) bool {
	return func(r catalog.Record) bool {
		if r.Length <= 0 {
			return false
		}
		if len(labels) == 0 {
			return true
		}
		_, ok := labels[e.store.Classify(r).Label]
		return ok
	}
}

// search scans the entire record list, ignoring folder structure.
func (e *Engine) search(state State, pred func(catalog.Record) bool) Result {
	match := newMatcher(state.SearchText)

	var files []catalog.Record
	for _, r := range e.store.Records() {
		if !pred(r) {
			continue
		}
		if !match(strings.ToLower(r.Name)) {
			continue
		}
		files = append(files, r)
	}
	sortFiles(files, state.Sort)

	items := make([]Item, 0, len(files))
	for _, f := range files {
		items = append(items, Item{Name: f.Name, Record: f})
	}
	return Result{Items: items, Total: len(items)}
}

// browse lists the folder at state.Path. Child folders whose entire
// subtree is filtered out are suppressed; the zero byte exclusion alone
// can empty a folder, so the subtree check runs even without an active
// type filter.
func (e *Engine) browse(state State, pred func(catalog.Record) bool) Result {
	pathKey := state.PathKey()
	node, ok := e.index.Lookup(pathKey)
	if !ok {
		return Result{FolderMissing: true}
	}

	var folders []string
	for name := range node.ChildFolders {
		if e.index.SubtreeHasMatch(index.Join(pathKey, name), pred) {
			folders = append(folders, name)
		}
	}
	sort.Strings(folders)

	var files []catalog.Record
	for _, r := range node.Files {
		if pred(r) {
			files = append(files, r)
		}
	}
	sortFiles(files, state.Sort)

	items := make([]Item, 0, len(folders)+len(files))
	for _, name := range folders {
		items = append(items, Item{Folder: true, Name: name})
	}
	for _, f := range files {
		items = append(items, Item{Name: f.Name, Record: f})
	}
	return Result{Items: items, Total: len(items)}
}

// Classify exposes the store's memoized type classification so display
// layers can resolve labels, colors and icons for a record.
func (e *Engine) Classify(r catalog.Record) catalog.FileTypeInfo {
	return e.store.Classify(r)
}

// LabelCounts returns the number of listable records per type label
// across the whole store. Zero length records are excluded, matching
// what a filter on that label would surface. The counts drive the type
// filter panel.
func (e *Engine) LabelCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range e.store.Records() {
		if r.Length <= 0 {
			continue
		}
		counts[e.store.Classify(r).Label]++
	}
	return counts
}
