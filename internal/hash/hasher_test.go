package hash

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile_SmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	content := []byte("Hello, World!")
	require.NoError(t, os.WriteFile(testFile, content, 0644))

	got, err := HashFile(testFile)
	require.NoError(t, err)

	h := xxhash.New()
	h.Write(content)
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), got)
}

func TestHashFile_LargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "large.bin")

	// Larger than the streaming buffer so several reads are needed.
	data := make([]byte, 1024*1024+17)
	for i := range data {
		data[i] = byte(i % 256)
	}
	require.NoError(t, os.WriteFile(testFile, data, 0644))

	got, err := HashFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, Sum(data), got)
}

func TestHashFile_NonExistent(t *testing.T) {
	_, err := HashFile("/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestHashFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "empty.txt")
	require.NoError(t, os.WriteFile(testFile, []byte(""), 0644))

	got, err := HashFile(testFile)
	require.NoError(t, err)
	assert.Len(t, got, 16)
}

func TestHashReader_MatchesSum(t *testing.T) {
	data := []byte("streamed content")

	got, err := HashReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum(data), got)
}

func TestAggregator_Deterministic(t *testing.T) {
	a := NewAggregator()
	a.Add("a", "0011")
	a.Add("b", "2233")

	b := NewAggregator()
	b.Add("a", "0011")
	b.Add("b", "2233")

	assert.Equal(t, a.Sum(), b.Sum())
}

func TestAggregator_Separators(t *testing.T) {
	a := NewAggregator()
	a.Add("ab", "c")

	b := NewAggregator()
	b.Add("a", "bc")

	assert.NotEqual(t, a.Sum(), b.Sum())
}

func TestAggregator_DiffersFromFile(t *testing.T) {
	empty := NewAggregator().Sum()
	assert.NotEqual(t, Sum(nil), empty)
}

func TestXXHashFunc(t *testing.T) {
	data := []byte("test data")

	hashBytes, err := XXHashFunc(data)
	require.NoError(t, err)
	assert.Len(t, hashBytes, 8)

	hashBytes2, err := XXHashFunc(data)
	require.NoError(t, err)
	assert.Equal(t, hashBytes, hashBytes2)
}

func TestXXHashFunc_EmptyData(t *testing.T) {
	hashBytes, err := XXHashFunc([]byte{})
	require.NoError(t, err)
	assert.Len(t, hashBytes, 8)
}
