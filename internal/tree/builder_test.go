package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_EmptyFiles(t *testing.T) {
	root, err := Build(map[string]Digest{}, nil)
	require.NoError(t, err)

	assert.True(t, root.IsEmptyDirectory())
	assert.NotEmpty(t, root.Digest(), "root digest should not be empty even for empty tree")
}

func TestBuild_NestedFiles(t *testing.T) {
	root, err := Build(map[string]Digest{
		"file1.txt":              "d1",
		"subdir/file2.txt":       "d2",
		"subdir/nested/file3.md": "d3",
	}, nil)
	require.NoError(t, err)

	require.Len(t, root.Children(), 2)
	assert.Equal(t, "file1.txt", root.Children()[0].Name())
	assert.Equal(t, "subdir", root.Children()[1].Name())

	subdir, ok := root.Child("subdir")
	require.True(t, ok)
	assert.True(t, subdir.IsDir())

	nested, ok := subdir.Child("nested")
	require.True(t, ok)
	file3, ok := nested.Child("file3.md")
	require.True(t, ok)
	assert.Equal(t, Digest("d3"), file3.Digest())
	assert.False(t, file3.IsDir())
}

func TestBuild_EmptyDirectories(t *testing.T) {
	root, err := Build(map[string]Digest{"a/b": "d"}, []string{"a", "e", "e/f", "."})
	require.NoError(t, err)

	e, ok := root.Child("e")
	require.True(t, ok)
	f, ok := e.Child("f")
	require.True(t, ok)
	assert.True(t, f.IsEmptyDirectory())
	assert.False(t, e.IsEmptyDirectory())
}

func TestBuild_Deterministic(t *testing.T) {
	files := map[string]Digest{
		"file1.txt": "hash1",
		"x/file2":   "hash2",
	}

	tree1, err := Build(files, nil)
	require.NoError(t, err)
	tree2, err := Build(files, nil)
	require.NoError(t, err)

	assert.Equal(t, tree1.Digest(), tree2.Digest())
}

func TestBuild_DifferentInputsDifferentHash(t *testing.T) {
	tree1, err := Build(map[string]Digest{"file1.txt": "hash1"}, nil)
	require.NoError(t, err)
	tree2, err := Build(map[string]Digest{"file2.txt": "hash1"}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, tree1.Digest(), tree2.Digest(), "names take part in the directory digest")
}

func TestBuild_FileAndDirectoryConflict(t *testing.T) {
	_, err := Build(map[string]Digest{"a": "d1", "a/b": "d2"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = Build(map[string]Digest{"a": "d1"}, []string{"a"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestBuild_InvalidPath(t *testing.T) {
	_, err := Build(map[string]Digest{"a/../b": "d1"}, nil)
	assert.Error(t, err)

	_, err = Build(map[string]Digest{"": "d1"}, nil)
	assert.Error(t, err)
}

func TestNewDirectory_OrderIndependent(t *testing.T) {
	a := NewFile("a", "1")
	b := NewFile("b", "2")

	d1, err := NewDirectory("d", a, b)
	require.NoError(t, err)
	d2, err := NewDirectory("other", b, a)
	require.NoError(t, err)

	assert.Equal(t, d1.Digest(), d2.Digest(), "the directory's own name is not part of its digest")
}

func TestNewDirectory_DuplicateName(t *testing.T) {
	_, err := NewDirectory("", NewFile("a", "1"), NewFile("a", "2"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestNewDirectory_EmptyDiffersFromNonEmpty(t *testing.T) {
	empty, err := NewDirectory("d")
	require.NoError(t, err)
	withFile, err := NewDirectory("d", NewFile("a", "1"))
	require.NoError(t, err)

	assert.NotEqual(t, empty.Digest(), withFile.Digest())
}

func TestWalk_PreOrderPaths(t *testing.T) {
	root, err := Build(map[string]Digest{"b/c": "1", "a": "2"}, nil)
	require.NoError(t, err)

	var paths []string
	Walk(root, func(path string, _ *Node) {
		paths = append(paths, path)
	})

	assert.Equal(t, []string{"", "/a", "/b", "/b/c"}, paths)
}
