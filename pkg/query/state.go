// Package query turns the flat catalog and the folder index into
// ordered listings. Evaluation is a pure function of the query state,
// so the UI can re-run it as often as it likes without corrupting
// anything.
package query

import "strings"

// SortKey selects the file ordering within a result.
type SortKey int

const (
	SortModifiedDesc SortKey = iota
	SortModifiedAsc
	SortSizeDesc
	SortSizeAsc
	SortNameAsc
)

// String returns the short identifier used in logs and the status bar.
func (k SortKey) String() string {
	switch k {
	case SortModifiedDesc:
		return "modified-desc"
	case SortModifiedAsc:
		return "modified-asc"
	case SortSizeDesc:
		return "size-desc"
	case SortSizeAsc:
		return "size-asc"
	case SortNameAsc:
		return "name-asc"
	default:
		return "unknown"
	}
}

// State is the engine's cursor: one value carries everything that
// determines what the user currently sees. Mutations go through the
// setters so the page reset rules stay in one place.
type State struct {
	// Path is the folder scope as a sequence of segments. Empty means
	// the root folder.
	Path []string

	// SearchText switches the engine into search mode when non-empty.
	SearchText string

	// TypeLabels is the set of accepted file type labels. An empty set
	// accepts every type; deselecting the last label therefore falls
	// back to showing everything.
	TypeLabels map[string]struct{}

	// Sort orders files within the result.
	Sort SortKey

	// Page is the 1-based page number. Changing Path or SearchText
	// resets it to 1.
	Page int
}

// NewState returns the initial state: root folder, no search, no type
// filter, newest first.
func NewState() State {
	return State{Page: 1}
}

// PathKey returns the "/"-joined folder path, "" for the root.
func (s *State) PathKey() string {
	return strings.Join(s.Path, "/")
}

// Clone returns a deep copy of the state, so an evaluation can run on
// a snapshot while the caller keeps mutating its own copy.
func (s State) Clone() State {
	c := s
	c.Path = append([]string(nil), s.Path...)
	if s.TypeLabels != nil {
		c.TypeLabels = make(map[string]struct{}, len(s.TypeLabels))
		for label := range s.TypeLabels {
			c.TypeLabels[label] = struct{}{}
		}
	}
	return c
}

// SetPath replaces the folder scope and resets the page.
func (s *State) SetPath(segments []string) {
	s.Path = append([]string(nil), segments...)
	s.Page = 1
}

// EnterFolder descends into a child folder and resets the page.
func (s *State) EnterFolder(name string) {
	s.Path = append(append([]string(nil), s.Path...), name)
	s.Page = 1
}

// UpFolder ascends one level and resets the page. At the root it is a
// no-op.
func (s *State) UpFolder() {
	if len(s.Path) == 0 {
		return
	}
	s.Path = s.Path[:len(s.Path)-1]
	s.Page = 1
}

// SetSearch replaces the search text and resets the page.
func (s *State) SetSearch(text string) {
	s.SearchText = text
	s.Page = 1
}

// ToggleLabel flips one label in the accepted set. The page is left
// alone; pagination clamps it if the result shrinks.
func (s *State) ToggleLabel(label string) {
	if s.TypeLabels == nil {
		s.TypeLabels = make(map[string]struct{})
	}
	if _, ok := s.TypeLabels[label]; ok {
		delete(s.TypeLabels, label)
	} else {
		s.TypeLabels[label] = struct{}{}
	}
}

// ClearLabels empties the accepted set, restoring "accept all".
func (s *State) ClearLabels() {
	s.TypeLabels = nil
}
