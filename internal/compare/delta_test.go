package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPath(t *testing.T) {
	r := newRoot()
	a := r.add("a", Same, true)
	aa := a.add("aa", Same, true)

	got, err := r.GetPath("")
	require.NoError(t, err)
	assert.Same(t, r, got)

	got, err = r.GetPath("/a")
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = r.GetPath("/a/aa")
	require.NoError(t, err)
	assert.Same(t, aa, got)

	got, err = a.GetPath("/aa")
	require.NoError(t, err)
	assert.Same(t, aa, got)

	for _, path := range []string{"/", "//", "a", "/aa", "/a/a", "/a//", "/a/aa/"} {
		_, err := r.GetPath(path)
		assert.ErrorIs(t, err, ErrNotFound, "path %q", path)
	}
}

func TestGetPath_PastFile(t *testing.T) {
	r := newRoot()
	r.add("f", New, false)

	_, err := r.GetPath("/f")
	require.NoError(t, err)

	_, err = r.GetPath("/f/x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsEmptyDirectory(t *testing.T) {
	r := newRoot()
	directory := r.add("d", New, true)
	assert.True(t, directory.IsEmptyDirectory())

	f := directory.add("f", New, false)
	assert.False(t, f.IsEmptyDirectory())
	assert.False(t, directory.IsEmptyDirectory())
}

func TestPath(t *testing.T) {
	r := newRoot()
	leaf := r.add("a", Same, true).add("b", Changed, false)

	assert.Equal(t, "", r.Path())
	assert.Equal(t, "/a/b", leaf.Path())
	assert.Same(t, r, leaf.Parent().Parent())
}

func TestAddRelocated_RejectsIllegalState(t *testing.T) {
	r := newRoot()
	p := &Provenance{Kind: RenamedFrom, From: "x"}

	assert.Panics(t, func() { r.addRelocated("a", Deleted, false, p) })
	assert.Panics(t, func() { r.addRelocated("a", Changed, false, p) })
	assert.NotPanics(t, func() { r.addRelocated("b", DirToFile, false, p) })
}

func TestDrop(t *testing.T) {
	r := newRoot()
	r.add("a", New, false)
	r.add("b", Same, true)
	r.drop()

	require.Len(t, r.Children(), 1)
	assert.Equal(t, "a", r.Children()[0].Name())
}
