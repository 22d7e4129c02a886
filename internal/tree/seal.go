package tree

import (
	"encoding/hex"
	"errors"
	"fmt"

	mt "github.com/txaty/go-merkletree"

	"treedelta/internal/hash"
)

// ErrSealMismatch is returned when a decoded snapshot does not match the seal
// written with it.
var ErrSealMismatch = errors.New("snapshot seal mismatch")

// sealLeaf is one file entry of the seal, serialized as path NUL digest.
type sealLeaf struct {
	path   string
	digest Digest
}

func (l sealLeaf) Serialize() ([]byte, error) {
	return []byte(l.path + "\x00" + string(l.digest)), nil
}

// sealPadding fills the leaf list up to the minimum the merkle tree accepts.
var sealPadding = sealLeaf{path: "\x00"}

// Seal computes a merkle root over every file of the tree in pre-order. Unlike
// the root digest, the seal commits to full paths, so it also detects a
// snapshot whose lines were reordered between directories.
func Seal(root *Node) (Digest, error) {
	blocks := make([]mt.DataBlock, 0)
	Walk(root, func(path string, n *Node) {
		if !n.IsDir() {
			blocks = append(blocks, sealLeaf{path: path, digest: n.Digest()})
		}
	})
	for len(blocks) < 2 {
		blocks = append(blocks, sealPadding)
	}

	tree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build seal tree: %w", err)
	}

	return Digest(hex.EncodeToString(tree.Root)), nil
}

// VerifySeal recomputes the seal of root and compares it with want.
func VerifySeal(root *Node, want Digest) error {
	got, err := Seal(root)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrSealMismatch, want, got)
	}
	return nil
}
