package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeal_Deterministic(t *testing.T) {
	s1, err := Seal(sampleTree(t))
	require.NoError(t, err)
	s2, err := Seal(sampleTree(t))
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Len(t, string(s1), 16)
}

func TestSeal_CommitsToPaths(t *testing.T) {
	left, err := Build(map[string]Digest{"a/x": "1", "b/y": "2"}, nil)
	require.NoError(t, err)
	right, err := Build(map[string]Digest{"a/y": "2", "b/x": "1"}, nil)
	require.NoError(t, err)

	s1, err := Seal(left)
	require.NoError(t, err)
	s2, err := Seal(right)
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
}

func TestSeal_SmallTrees(t *testing.T) {
	empty, err := NewDirectory("")
	require.NoError(t, err)
	single, err := NewDirectory("", NewFile("a", "1"))
	require.NoError(t, err)

	s1, err := Seal(empty)
	require.NoError(t, err)
	s2, err := Seal(single)
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NoError(t, VerifySeal(single, s2))
	assert.ErrorIs(t, VerifySeal(single, s1), ErrSealMismatch)
}
