package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/index"
)

// Order selects the lexicographic direction for MatchFolders results.
type Order int

const (
	OrderAsc Order = iota
	OrderDesc
)

// OrderFromString parses "asc" or "desc", defaulting to ascending.
func OrderFromString(s string) Order {
	if strings.EqualFold(s, "desc") {
		return OrderDesc
	}
	return OrderAsc
}

// String returns "asc" or "desc".
func (o Order) String() string {
	if o == OrderDesc {
		return "desc"
	}
	return "asc"
}

// MatchFolders returns the folder paths matching pattern, compiled as a
// case-insensitive regex anchored at a path boundary: "(?:/|$)" is
// appended unless the pattern already asserts an end with "$". Only the
// shortest path of each matching chain is kept, so "a" stands in for
// "a/b" and "a/b/c". When no folder matches, file paths are tried
// instead and the parent folders of matching files are returned.
//
// Up to limit paths are returned, sorted lexicographically per order;
// limit <= 0 means no limit. An invalid pattern yields no matches.
func MatchFolders(store *catalog.Store, idx *index.Index, pattern string, limit int, order Order) []string {
	re, err := compileFolderPattern(pattern)
	if err != nil {
		return nil
	}

	matches := shortestMatches(idx.FolderPaths(), re)
	if len(matches) == 0 {
		matches = parentFolders(store.Records(), re)
	}

	sort.Strings(matches)
	if order == OrderDesc {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// MatchFolders runs the folder matcher against the engine's own store
// and index.
func (e *Engine) MatchFolders(pattern string, limit int, order Order) []string {
	return MatchFolders(e.store, e.index, pattern, limit, order)
}

// compileFolderPattern anchors pattern at a path boundary so "doc"
// matches the folders "doc" and "doc/sub" but not "documents".
func compileFolderPattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasSuffix(pattern, "$") {
		pattern += "(?:/|$)"
	}
	return regexp.Compile("(?i)" + pattern)
}

// shortestMatches keeps only the shortest matching path of each chain.
// With the trailing anchor every descendant of a matching folder
// matches too, so dropping covered paths collapses each subtree to its
// root.
func shortestMatches(paths []string, re *regexp.Regexp) []string {
	var matched []string
	for _, p := range paths {
		if re.MatchString(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return len(matched[i]) < len(matched[j])
	})

	var kept []string
	for _, m := range matched {
		covered := false
		for _, k := range kept {
			if m == k || strings.HasPrefix(m, k+"/") {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, m)
		}
	}
	return kept
}

// parentFolders is the fallback when no folder path matches: match file
// paths instead and return their parent folders, deduplicated.
func parentFolders(records []catalog.Record, re *regexp.Regexp) []string {
	seen := make(map[string]struct{})
	var parents []string
	for _, r := range records {
		if !re.MatchString(r.Name) {
			continue
		}
		dir := r.Dir()
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		parents = append(parents, dir)
	}
	return parents
}
