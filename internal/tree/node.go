package tree

import (
	"errors"
	"fmt"
	"sort"

	"treedelta/internal/hash"
)

// ErrDuplicateName is returned when two siblings share a name.
var ErrDuplicateName = errors.New("duplicate name in directory")

// Digest identifies the content of a file or, for a directory, the
// recursive content of everything below it.
type Digest string

// Node is an immutable element of a digested tree: either a file carrying the
// digest of its bytes, or a directory whose digest is derived from its
// children's (name, digest) pairs.
type Node struct {
	name     string
	digest   Digest
	dir      bool
	children []*Node // sorted by name; nil for files
}

// NewFile returns a file node.
func NewFile(name string, digest Digest) *Node {
	return &Node{name: name, digest: digest}
}

// NewDirectory returns a directory node over children. The children may be
// given in any order; the digest only depends on the set of (name, digest)
// pairs.
func NewDirectory(name string, children ...*Node) (*Node, error) {
	sorted := make([]*Node, len(children))
	copy(sorted, children)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].name < sorted[j].name
	})

	agg := hash.NewAggregator()
	for i, child := range sorted {
		if i > 0 && sorted[i-1].name == child.name {
			return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateName, child.name, name)
		}
		agg.Add(child.name, string(child.digest))
	}

	return &Node{
		name:     name,
		digest:   Digest(agg.Sum()),
		dir:      true,
		children: sorted,
	}, nil
}

func (n *Node) Name() string   { return n.name }
func (n *Node) Digest() Digest { return n.digest }
func (n *Node) IsDir() bool    { return n.dir }

// Children returns the children sorted by name. The slice must not be
// modified.
func (n *Node) Children() []*Node { return n.children }

// Child looks up a direct child by name.
func (n *Node) Child(name string) (*Node, bool) {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].name >= name
	})
	if i < len(n.children) && n.children[i].name == name {
		return n.children[i], true
	}
	return nil, false
}

// IsEmptyDirectory reports whether n is a directory without children.
func (n *Node) IsEmptyDirectory() bool {
	return n.dir && len(n.children) == 0
}

// Walk visits n and every node below it in pre-order, passing the full path
// of each node (root path "", children parent+"/"+name).
func Walk(root *Node, fn func(path string, n *Node)) {
	walk("", root, fn)
}

func walk(path string, n *Node, fn func(string, *Node)) {
	fn(path, n)
	for _, child := range n.children {
		walk(path+"/"+child.name, child, fn)
	}
}
