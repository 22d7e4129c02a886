package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const bufferSize = 32 * 1024 // 32KB buffer for streaming

// dirMarker prefixes every directory aggregate so a directory never shares
// a digest with a file whose bytes happen to match its listing.
const dirMarker = "dir\x00"

// HashFile computes the xxHash of a file using streaming for large files
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	sum, err := HashReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return sum, nil
}

// HashReader streams r into an xxHash digest and returns it hex encoded.
func HashReader(r io.Reader) (string, error) {
	h := xxhash.New()
	buf := make([]byte, bufferSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sum returns the hex encoded xxHash of data.
func Sum(data []byte) string {
	h := xxhash.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Aggregator folds (name, digest) pairs into a directory digest. Callers must
// add entries in a stable order (sorted by name) for the result to be
// independent of enumeration order.
type Aggregator struct {
	h *xxhash.Digest
}

func NewAggregator() *Aggregator {
	h := xxhash.New()
	h.WriteString(dirMarker)
	return &Aggregator{h: h}
}

// Add appends one child entry. Names and digests are NUL terminated so that
// ("ab", "c") and ("a", "bc") never collide.
func (a *Aggregator) Add(name, digest string) {
	a.h.WriteString(name)
	a.h.WriteString("\x00")
	a.h.WriteString(digest)
	a.h.WriteString("\x00")
}

// Sum returns the hex encoded aggregate.
func (a *Aggregator) Sum() string {
	return hex.EncodeToString(a.h.Sum(nil))
}

// XXHashFunc is a custom hash function adapter for go-merkletree
// It converts []byte input to xxHash []byte output
func XXHashFunc(data []byte) ([]byte, error) {
	sum := xxhash.Sum64(data)

	// Convert uint64 to []byte in big-endian format
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return buf, nil
}
