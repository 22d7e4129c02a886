package tree

import (
	"fmt"
	"sort"
	"strings"
)

// pendingDir collects entries before the directory digest can be computed.
type pendingDir struct {
	files map[string]Digest
	dirs  map[string]*pendingDir
}

func newPendingDir() *pendingDir {
	return &pendingDir{
		files: make(map[string]Digest),
		dirs:  make(map[string]*pendingDir),
	}
}

// Build creates a digested tree from file digests keyed by slash separated
// paths relative to the root. dirs lists directories that must exist even
// when they hold no files; parents of every file are created implicitly.
//
// Directory digests are computed bottom-up:
// 1. Place every file and directory under its parent
// 2. Build children first, sorted by name
// 3. Aggregate the children's (name, digest) pairs into the parent digest
func Build(files map[string]Digest, dirs []string) (*Node, error) {
	root := newPendingDir()

	// Sort paths for deterministic error reporting
	dirPaths := append([]string(nil), dirs...)
	sort.Strings(dirPaths)
	for _, p := range dirPaths {
		clean, err := cleanRelative(p)
		if err != nil {
			return nil, err
		}
		if clean == "" {
			continue
		}
		if _, err := root.mkdirAll(strings.Split(clean, "/")); err != nil {
			return nil, err
		}
	}

	filePaths := make([]string, 0, len(files))
	for p := range files {
		filePaths = append(filePaths, p)
	}
	sort.Strings(filePaths)

	for _, p := range filePaths {
		clean, err := cleanRelative(p)
		if err != nil {
			return nil, err
		}
		if clean == "" {
			return nil, fmt.Errorf("file path %q names the root", p)
		}
		segments := strings.Split(clean, "/")
		parent, err := root.mkdirAll(segments[:len(segments)-1])
		if err != nil {
			return nil, err
		}
		name := segments[len(segments)-1]
		if _, isDir := parent.dirs[name]; isDir {
			return nil, fmt.Errorf("%w: %q is both a file and a directory", ErrDuplicateName, clean)
		}
		if _, exists := parent.files[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, clean)
		}
		parent.files[name] = files[p]
	}

	return root.build("")
}

func (p *pendingDir) mkdirAll(segments []string) (*pendingDir, error) {
	current := p
	for i, segment := range segments {
		if _, isFile := current.files[segment]; isFile {
			return nil, fmt.Errorf("%w: %q is both a file and a directory",
				ErrDuplicateName, strings.Join(segments[:i+1], "/"))
		}
		next, ok := current.dirs[segment]
		if !ok {
			next = newPendingDir()
			current.dirs[segment] = next
		}
		current = next
	}
	return current, nil
}

func (p *pendingDir) build(name string) (*Node, error) {
	children := make([]*Node, 0, len(p.files)+len(p.dirs))
	for fileName, digest := range p.files {
		children = append(children, NewFile(fileName, digest))
	}
	for dirName, sub := range p.dirs {
		child, err := sub.build(dirName)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return NewDirectory(name, children...)
}

// cleanRelative trims surrounding slashes and rejects empty, "." and ".."
// segments. The root is returned as "".
func cleanRelative(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return "", nil
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid relative path %q", p)
		}
	}
	return p, nil
}
