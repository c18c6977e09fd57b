package merkle

import (
	"fmt"

	"github.com/veriminutes/veriminutes/schema"
)

// InclusionProof walks from leafIndex to the root, collecting the sibling
// hash and its side at each level. When the sibling index falls outside an
// odd-length level, the node is its own sibling (the duplicated last node).
func (t *Tree) InclusionProof(leafIndex int) (*schema.InclusionProof, error) {
	if leafIndex < 0 || leafIndex >= len(t.leaves) {
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0,%d)", leafIndex, len(t.leaves))
	}

	var siblings []string
	var offsets []string
	index := leafIndex

	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]

		var siblingIndex int
		if index%2 == 0 {
			siblingIndex = index + 1
			offsets = append(offsets, "right")
		} else {
			siblingIndex = index - 1
			offsets = append(offsets, "left")
		}

		if siblingIndex < len(nodes) {
			siblings = append(siblings, nodes[siblingIndex])
		} else {
			siblings = append(siblings, nodes[index])
		}
		index /= 2
	}

	return &schema.InclusionProof{
		LeafIndex: leafIndex,
		Offsets:   offsets,
		Siblings:  siblings,
	}, nil
}

// VerifyInclusion replays proof from leaf upward and reports whether the
// final value equals root. Fails closed on malformed input.
func (t *Tree) VerifyInclusion(leaf string, proof *schema.InclusionProof, root string) bool {
	if proof == nil || len(proof.Siblings) != len(proof.Offsets) {
		return false
	}
	current := leaf
	for i, sibling := range proof.Siblings {
		var err error
		if proof.Offsets[i] == "right" {
			current, err = t.hashPair(current, sibling)
		} else {
			current, err = t.hashPair(sibling, current)
		}
		if err != nil {
			return false
		}
	}
	return current == root
}

// VerifyProof rebuilds a fresh tree from the file using the chunk size and
// leaf algorithm recorded in the proof and compares the recomputed root.
// This is a full-document equality check, not merely an inclusion check.
// Any error (missing file, malformed proof) yields false.
func VerifyProof(path string, proof *schema.MerkleProof) bool {
	if proof == nil {
		return false
	}
	opts := []Option{WithChunkSize(proof.ChunkSize)}
	if proof.LeafAlgo != "" {
		opts = append(opts, WithLeafAlgo(proof.LeafAlgo))
	}
	rebuilt, err := New(opts...).BuildFromFile(path)
	if err != nil {
		return false
	}
	return rebuilt.MerkleRoot == proof.MerkleRoot
}
