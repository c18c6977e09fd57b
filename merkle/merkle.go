// Package merkle builds chunked Merkle trees over file bytes and produces
// and verifies inclusion proofs.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/veriminutes/veriminutes/schema"
)

// DefaultChunkSize is the chunking granularity used when none is configured.
const DefaultChunkSize = 65536

// DefaultLeafAlgo hashes chunks and internal nodes.
const DefaultLeafAlgo = "sha256"

// Tree is a chunked Merkle tree. A Tree is single-use: BuildFromFile
// populates the leaves and levels for subsequent proof generation.
type Tree struct {
	chunkSize int
	leafAlgo  string
	leaves    []string
	levels    [][]string
	root      string
}

// Option configures a Tree.
type Option func(*Tree)

// WithChunkSize overrides the chunk size in bytes.
func WithChunkSize(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.chunkSize = n
		}
	}
}

// WithLeafAlgo selects the leaf and node hash: sha256, sha3-256 or blake3.
func WithLeafAlgo(algo string) Option {
	return func(t *Tree) {
		if algo != "" {
			t.leafAlgo = algo
		}
	}
}

// New returns a Tree with the default 64 KiB chunk size and SHA-256 leaves.
func New(opts ...Option) *Tree {
	t := &Tree{chunkSize: DefaultChunkSize, leafAlgo: DefaultLeafAlgo}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the tree root, or "" before BuildFromFile.
func (t *Tree) Root() string { return t.root }

// Leaves returns the ordered leaf hashes. Immutable once computed.
func (t *Tree) Leaves() []string { return t.leaves }

// BuildFromFile reads all bytes of path, splits them into consecutive
// chunks (the last chunk may be shorter), hashes each chunk into a leaf and
// builds the tree. An empty file is treated as exactly one empty chunk, so
// the tree never has zero leaves.
func (t *Tree) BuildFromFile(path string) (*schema.MerkleProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunks := chunk(data, t.chunkSize)
	t.leaves = make([]string, len(chunks))
	for i, c := range chunks {
		leaf, err := hashBytes(t.leafAlgo, c)
		if err != nil {
			return nil, err
		}
		t.leaves[i] = leaf
	}
	if err := t.build(); err != nil {
		return nil, err
	}

	inclusion, err := t.InclusionProof(0)
	if err != nil {
		return nil, err
	}
	return &schema.MerkleProof{
		DocPath:    filepath.Base(path),
		ChunkSize:  t.chunkSize,
		LeafAlgo:   t.leafAlgo,
		Leaves:     t.leaves,
		MerkleRoot: t.root,
		Inclusion:  *inclusion,
	}, nil
}

func chunk(data []byte, size int) [][]byte {
	var chunks [][]byte
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}
	return chunks
}

// build constructs the levels bottom-up. Odd-length levels pair the last
// node with itself; parents hash the concatenated raw digests.
func (t *Tree) build() error {
	if len(t.leaves) == 0 {
		t.root = ""
		t.levels = nil
		return nil
	}
	t.levels = [][]string{append([]string(nil), t.leaves...)}

	current := t.leaves
	for len(current) > 1 {
		next := make([]string, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left
			if i+1 < len(current) {
				right = current[i+1]
			}
			parent, err := t.hashPair(left, right)
			if err != nil {
				return err
			}
			next = append(next, parent)
		}
		t.levels = append(t.levels, next)
		current = next
	}
	t.root = current[0]
	return nil
}

// hashPair hashes bytes(left) || bytes(right) where left and right are hex
// digests: decoded before concatenation, re-encoded after hashing.
func (t *Tree) hashPair(left, right string) (string, error) {
	lb, err := hex.DecodeString(left)
	if err != nil {
		return "", err
	}
	rb, err := hex.DecodeString(right)
	if err != nil {
		return "", err
	}
	return hashBytes(t.leafAlgo, append(lb, rb...))
}

func hashBytes(algo string, data []byte) (string, error) {
	switch algo {
	case "sha256":
		s := sha256.Sum256(data)
		return hex.EncodeToString(s[:]), nil
	case "sha3-256":
		s := sha3.Sum256(data)
		return hex.EncodeToString(s[:]), nil
	case "blake3":
		s := blake3.Sum256(data)
		return hex.EncodeToString(s[:]), nil
	default:
		return "", fmt.Errorf("merkle: unsupported leaf algorithm %q", algo)
	}
}
