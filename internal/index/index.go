// Package index maps content digests to the paths that carry them within one
// digested tree.
package index

import (
	"sort"

	"treedelta/internal/tree"
)

// Index maps a digest to the full paths of every node below the root that
// carries it, in pre-order. It is built once and never modified afterwards.
//
// The root and empty directories are not indexed: the root has no slot to
// move from or to, and every empty directory shares one constant digest.
type Index struct {
	root  *tree.Node
	paths map[tree.Digest][]string
}

// Build indexes every node of the tree rooted at root.
func Build(root *tree.Node) *Index {
	idx := &Index{
		root:  root,
		paths: make(map[tree.Digest][]string),
	}
	tree.Walk(root, func(path string, n *tree.Node) {
		if n == root || n.IsEmptyDirectory() {
			return
		}
		idx.paths[n.Digest()] = append(idx.paths[n.Digest()], path)
	})
	return idx
}

// Root returns the tree the index was built from.
func (idx *Index) Root() *tree.Node { return idx.root }

// Paths returns the paths carrying d. The slice must not be modified.
func (idx *Index) Paths(d tree.Digest) []string { return idx.paths[d] }

// Unique returns the single path carrying d, if exactly one does.
func (idx *Index) Unique(d tree.Digest) (string, bool) {
	paths := idx.paths[d]
	if len(paths) != 1 {
		return "", false
	}
	return paths[0], true
}

// Len returns the number of distinct digests.
func (idx *Index) Len() int { return len(idx.paths) }

// Duplicate is a digest carried by more than one path.
type Duplicate struct {
	Digest tree.Digest
	Paths  []string
}

// Duplicates returns every digest carried by more than one path, ordered by
// digest.
func (idx *Index) Duplicates() []Duplicate {
	dups := make([]Duplicate, 0)
	for d, paths := range idx.paths {
		if len(paths) > 1 {
			dups = append(dups, Duplicate{Digest: d, Paths: paths})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		return dups[i].Digest < dups[j].Digest
	})
	return dups
}

// Duplicates builds an index over root and returns its duplicates.
func Duplicates(root *tree.Node) []Duplicate {
	return Build(root).Duplicates()
}
