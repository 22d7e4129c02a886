package compare

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"treedelta/internal/hash"
	"treedelta/internal/tree"
)

// content returns the digest of a file holding the decimal text of n.
func content(n int) tree.Digest {
	return tree.Digest(hash.Sum([]byte(strconv.Itoa(n))))
}

func file(name string, n int) *tree.Node {
	return tree.NewFile(name, content(n))
}

func dir(name string, children ...*tree.Node) *tree.Node {
	d, err := tree.NewDirectory(name, children...)
	if err != nil {
		panic(err)
	}
	return d
}

func root(children ...*tree.Node) *tree.Node {
	return dir("", children...)
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func assertDelta(t *testing.T, oldTree, newTree *tree.Node, expected string) {
	t.Helper()
	assert.Equal(t, expected, FormatReport(Diff(oldTree, newTree)))
}
