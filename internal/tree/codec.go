package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedSnapshot is returned by Decode for input that is not a
// snapshot.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

const (
	indentUnit = "    "
	itemPrefix = "- "
	sealPrefix = "# seal "
)

// Encode writes root in the indented snapshot form. Directory lines carry
// only the name, file lines append the digest. When seal is set a trailer
// line with the merkle seal of the tree follows.
func Encode(w io.Writer, root *Node, seal bool) error {
	bw := bufio.NewWriter(w)
	if err := encode(bw, root, 0); err != nil {
		return err
	}
	if seal {
		s, err := Seal(root)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s%s\n", sealPrefix, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encode(w *bufio.Writer, n *Node, depth int) error {
	if strings.ContainsAny(n.name, "`\r\n") {
		return fmt.Errorf("name %q cannot be encoded", n.name)
	}
	line := strings.Repeat(indentUnit, depth) + itemPrefix + "`" + n.name + "`"
	if !n.dir {
		line += " " + string(n.digest)
	}
	if _, err := w.WriteString(line + "\n"); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := encode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// openDir is a directory whose children are still being read.
type openDir struct {
	name     string
	children []*Node
}

// Decode reads a snapshot written by Encode. Directory digests are
// recomputed, and a seal trailer, if present, is verified.
func Decode(r io.Reader) (*Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		stack  []*openDir
		root   *Node
		seal   Digest
		lineNo int
	)

	// closeTo finalizes open directories until depth entries remain.
	closeTo := func(depth int) error {
		for len(stack) > depth {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			dir, err := NewDirectory(top.name, top.children...)
			if err != nil {
				return err
			}
			if len(stack) == 0 {
				root = dir
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, dir)
			}
		}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, sealPrefix) {
			seal = Digest(strings.TrimSpace(strings.TrimPrefix(line, sealPrefix)))
			continue
		}
		if seal != "" {
			return nil, fmt.Errorf("%w: line %d: entry after seal", ErrMalformedSnapshot, lineNo)
		}

		depth, name, digest, isFile, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSnapshot, lineNo, err)
		}

		if depth == 0 {
			if root != nil || len(stack) > 0 || isFile {
				return nil, fmt.Errorf("%w: line %d: expected a single root directory", ErrMalformedSnapshot, lineNo)
			}
			stack = append(stack, &openDir{name: name})
			continue
		}
		if depth > len(stack) {
			return nil, fmt.Errorf("%w: line %d: unexpected indentation", ErrMalformedSnapshot, lineNo)
		}
		if err := closeTo(depth); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedSnapshot, lineNo, err)
		}

		if isFile {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, NewFile(name, digest))
		} else {
			stack = append(stack, &openDir{name: name})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := closeTo(0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root directory", ErrMalformedSnapshot)
	}
	if seal != "" {
		if err := VerifySeal(root, seal); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func parseLine(line string) (depth int, name string, digest Digest, isFile bool, err error) {
	for strings.HasPrefix(line, indentUnit) {
		line = line[len(indentUnit):]
		depth++
	}
	if !strings.HasPrefix(line, itemPrefix+"`") {
		return 0, "", "", false, fmt.Errorf("expected %q", itemPrefix+"`")
	}
	line = line[len(itemPrefix)+1:]

	end := strings.IndexByte(line, '`')
	if end < 0 {
		return 0, "", "", false, errors.New("unterminated name")
	}
	name = line[:end]
	rest := line[end+1:]

	switch {
	case rest == "":
		return depth, name, "", false, nil
	case strings.HasPrefix(rest, " ") && len(strings.TrimSpace(rest)) > 0 && !strings.Contains(strings.TrimSpace(rest), " "):
		return depth, name, Digest(strings.TrimSpace(rest)), true, nil
	default:
		return 0, "", "", false, fmt.Errorf("unexpected trailing text %q", rest)
	}
}
