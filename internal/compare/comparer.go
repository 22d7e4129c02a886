package compare

import (
	"strings"

	"treedelta/internal/index"
	"treedelta/internal/tree"
)

// comparer holds the two global indices. A digest is eligible for rename or
// move inference iff it occurs exactly once in each tree; the pairing is then
// forced, so the result does not depend on traversal order.
type comparer struct {
	old *index.Index
	new *index.Index
}

// Diff compares two digested trees.
func Diff(oldTree, newTree *tree.Node) *Delta {
	return Compare(index.Build(oldTree), index.Build(newTree))
}

// Compare compares the trees behind two prebuilt indices. The returned root
// is always present, even when nothing changed.
func Compare(oldIndex, newIndex *index.Index) *Delta {
	c := &comparer{old: oldIndex, new: newIndex}
	root := newRoot()
	c.compareDirs(root, "", oldIndex.Root(), newIndex.Root())
	return root
}

// compareDirs walks the union of both children's names in sorted order.
func (c *comparer) compareDirs(parent *Delta, dirPath string, oldDir, newDir *tree.Node) {
	oldChildren, newChildren := oldDir.Children(), newDir.Children()
	i, j := 0, 0
	for i < len(oldChildren) || j < len(newChildren) {
		switch {
		case j == len(newChildren) || (i < len(oldChildren) && oldChildren[i].Name() < newChildren[j].Name()):
			c.removed(parent, oldChildren[i])
			i++
		case i == len(oldChildren) || newChildren[j].Name() < oldChildren[i].Name():
			c.added(parent, dirPath, newChildren[j])
			j++
		default:
			c.compareSlot(parent, dirPath, oldChildren[i], newChildren[j])
			i++
			j++
		}
	}
}

// compareSlot handles a name present in both directories.
func (c *comparer) compareSlot(parent *Delta, dirPath string, o, n *tree.Node) {
	path := dirPath + "/" + n.Name()

	switch {
	case o.IsDir() == n.IsDir() && o.Digest() == n.Digest():
		// equal subtree, pruned
	case !o.IsDir() && !n.IsDir():
		parent.add(n.Name(), Changed, false)
	case o.IsDir() && n.IsDir():
		container := parent.add(n.Name(), Same, true)
		c.compareDirs(container, path, o, n)
		if !container.HasChanges() {
			parent.drop()
		}
	case !o.IsDir():
		// The old file is a removed candidate; if eligible it shows up at
		// its destination.
		kindChange := c.addSlot(parent, dirPath, n.Name(), FileToDir, true, n.Digest())
		for _, child := range n.Children() {
			c.added(kindChange, path, child)
		}
	default:
		kindChange := c.addSlot(parent, dirPath, n.Name(), DirToFile, false, n.Digest())
		for _, child := range o.Children() {
			c.removed(kindChange, child)
		}
	}
}

// removed reports an entry only present in the old tree. Eligible content is
// suppressed, its destination carries the provenance.
func (c *comparer) removed(parent *Delta, o *tree.Node) {
	if c.eligible(o.Digest()) {
		return
	}
	deleted := parent.add(o.Name(), Deleted, o.IsDir())
	for _, child := range o.Children() {
		c.removed(deleted, child)
	}
}

// added reports an entry only present in the new tree. Eligible content is
// relocated wholesale and not descended into.
func (c *comparer) added(parent *Delta, dirPath string, n *tree.Node) {
	entry := c.addSlot(parent, dirPath, n.Name(), New, n.IsDir(), n.Digest())
	if _, relocated := entry.Provenance(); relocated {
		return
	}
	path := dirPath + "/" + n.Name()
	for _, child := range n.Children() {
		c.added(entry, path, child)
	}
}

// addSlot adds an entry whose new content has digest d, attaching provenance
// when d is eligible.
func (c *comparer) addSlot(parent *Delta, dirPath, name string, state State, dir bool, d tree.Digest) *Delta {
	if p := c.provenance(dirPath, d); p != nil {
		return parent.addRelocated(name, state, dir, p)
	}
	return parent.add(name, state, dir)
}

// provenance resolves the prior location of d for a slot in dirPath. The
// result is a rename when the old entry lived in the same directory.
func (c *comparer) provenance(dirPath string, d tree.Digest) *Provenance {
	if !c.eligible(d) {
		return nil
	}
	oldPath, _ := c.old.Unique(d)
	slash := strings.LastIndexByte(oldPath, '/')
	if oldPath[:slash] == dirPath {
		return &Provenance{Kind: RenamedFrom, From: oldPath[slash+1:]}
	}
	return &Provenance{Kind: MovedFrom, From: oldPath}
}

func (c *comparer) eligible(d tree.Digest) bool {
	_, inOld := c.old.Unique(d)
	_, inNew := c.new.Unique(d)
	return inOld && inNew
}
