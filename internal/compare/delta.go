package compare

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by GetPath when a path does not resolve.
var ErrNotFound = errors.New("delta path not found")

// State describes how an entry differs between the old and the new tree.
type State string

const (
	// Same labels a directory that exists in both trees and only holds
	// changed entries.
	Same      State = "Same"
	New       State = "New"
	Deleted   State = "Deleted"
	Changed   State = "Changed"
	FileToDir State = "FileToDir"
	DirToFile State = "DirToFile"
)

// ProvenanceKind tells how a relocated entry relates to its prior location.
type ProvenanceKind string

const (
	// RenamedFrom records the old name within the same parent directory.
	RenamedFrom ProvenanceKind = "RenamedFrom"
	// MovedFrom records the old full path.
	MovedFrom ProvenanceKind = "MovedFrom"
)

// Provenance is the prior identity of an entry whose content was traced to
// a unique location in the old tree.
type Provenance struct {
	Kind ProvenanceKind
	From string
}

func (p Provenance) String() string {
	return fmt.Sprintf("%s %s", p.Kind, p.From)
}

// Delta is a node of the delta tree. Ownership flows from parent to
// children; the parent pointer is only used to reconstruct paths.
type Delta struct {
	parent     *Delta
	name       string
	state      State
	provenance *Provenance
	dir        bool
	children   []*Delta // sorted by name
}

func newRoot() *Delta {
	return &Delta{state: Same, dir: true}
}

// add appends a child. Callers add children in name order.
func (d *Delta) add(name string, state State, dir bool) *Delta {
	child := &Delta{parent: d, name: name, state: state, dir: dir}
	d.children = append(d.children, child)
	return child
}

// addRelocated appends a child carrying provenance. Only New and kind
// changed entries can be traced to a prior location.
func (d *Delta) addRelocated(name string, state State, dir bool, p *Provenance) *Delta {
	switch state {
	case New, FileToDir, DirToFile:
	default:
		panic(fmt.Sprintf("provenance on %s entry %q", state, name))
	}
	child := d.add(name, state, dir)
	child.provenance = p
	return child
}

// drop removes the last child, used for containers that ended up empty.
func (d *Delta) drop() {
	d.children[len(d.children)-1] = nil
	d.children = d.children[:len(d.children)-1]
}

func (d *Delta) Name() string   { return d.name }
func (d *Delta) State() State   { return d.state }
func (d *Delta) IsDir() bool    { return d.dir }
func (d *Delta) Parent() *Delta { return d.parent }

// Provenance returns the prior identity of the entry, if it was traced.
func (d *Delta) Provenance() (Provenance, bool) {
	if d.provenance == nil {
		return Provenance{}, false
	}
	return *d.provenance, true
}

// Children returns the entries below d sorted by name. The slice must not be
// modified.
func (d *Delta) Children() []*Delta { return d.children }

// IsEmptyDirectory reports whether d is directory-kind without children.
func (d *Delta) IsEmptyDirectory() bool {
	return d.dir && len(d.children) == 0
}

// HasChanges reports whether anything below d differs.
func (d *Delta) HasChanges() bool {
	return len(d.children) > 0
}

// Path returns the full path of d; the root's path is "".
func (d *Delta) Path() string {
	if d.parent == nil {
		return ""
	}
	return d.parent.Path() + "/" + d.name
}

// GetPath resolves a path relative to d. The empty path is d itself; any
// other path starts with "/" and names one existing child per segment.
func (d *Delta) GetPath(path string) (*Delta, error) {
	if path == "" {
		return d, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	current := d
	for _, segment := range strings.Split(path[1:], "/") {
		next := current.child(segment)
		if next == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		current = next
	}
	return current, nil
}

func (d *Delta) child(name string) *Delta {
	if name == "" {
		return nil
	}
	for _, c := range d.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Walk visits d and every entry below it in pre-order.
func (d *Delta) Walk(fn func(*Delta)) {
	fn(d)
	for _, c := range d.children {
		c.Walk(fn)
	}
}
