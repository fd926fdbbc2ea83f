// Package index builds a folder tree over the flat record list so the
// query engine can answer "what sits directly under this path" without
// rescanning every record. The tree is rebuilt wholesale whenever the
// catalog is reloaded; it is never patched in place.
package index

import (
	"strings"
	"sync"

	"github.com/blobnav/blobnav/pkg/catalog"
)

// Node is one virtual folder. ChildFolders holds the names of immediate
// subfolders; Files holds the records whose direct parent is this
// folder, in the order they appeared in the listing.
type Node struct {
	ChildFolders map[string]struct{}
	Files        []catalog.Record
}

func newNode() *Node {
	return &Node{ChildFolders: make(map[string]struct{})}
}

// Index maps "/"-joined folder paths to nodes. The root folder has the
// empty path and always exists, even with zero records loaded.
type Index struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// New returns an index holding only the empty root folder.
func New() *Index {
	return &Index{nodes: map[string]*Node{"": newNode()}}
}

// Join appends a child folder name to a parent path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Rebuild discards the previous tree and reconstructs it in a single
// pass over records. The new tree is built aside and swapped in once
// complete, so concurrent readers either see the old tree or the new
// one, never a half-built state.
func (ix *Index) Rebuild(records []catalog.Record) {
	nodes := map[string]*Node{"": newNode()}
	for _, r := range records {
		segments := strings.Split(r.Name, "/")
		parent := ""
		for _, folder := range segments[:len(segments)-1] {
			nodes[parent].ChildFolders[folder] = struct{}{}
			child := Join(parent, folder)
			if _, ok := nodes[child]; !ok {
				nodes[child] = newNode()
			}
			parent = child
		}
		nodes[parent].Files = append(nodes[parent].Files, r)
	}

	ix.mu.Lock()
	ix.nodes = nodes
	ix.mu.Unlock()
}

// Lookup returns the node at the given folder path. ok is false when
// the folder does not exist, which is distinct from a folder that
// exists with no children.
func (ix *Index) Lookup(path string) (*Node, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	node, ok := ix.nodes[path]
	return node, ok
}

// SubtreeHasMatch reports whether the folder at path or any descendant
// folder holds at least one record satisfying pred. The walk is depth
// first and stops at the first hit. Nothing is cached here: pred
// changes with the active filter state, so every call scans fresh.
func (ix *Index) SubtreeHasMatch(path string, pred func(catalog.Record) bool) bool {
	ix.mu.RLock()
	nodes := ix.nodes
	ix.mu.RUnlock()
	return subtreeHasMatch(nodes, path, pred)
}

func subtreeHasMatch(nodes map[string]*Node, path string, pred func(catalog.Record) bool) bool {
	node, ok := nodes[path]
	if !ok {
		return false
	}
	for _, r := range node.Files {
		if pred(r) {
			return true
		}
	}
	for name := range node.ChildFolders {
		if subtreeHasMatch(nodes, Join(path, name), pred) {
			return true
		}
	}
	return false
}

// FolderPaths returns every folder path in the index except the root,
// in no particular order.
func (ix *Index) FolderPaths() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	paths := make([]string, 0, len(ix.nodes)-1)
	for path := range ix.nodes {
		if path == "" {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// FolderCount returns the number of folders in the index, excluding the
// root.
func (ix *Index) FolderCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.nodes) - 1
}
