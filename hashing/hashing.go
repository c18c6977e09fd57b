// Package hashing computes content hashes and creates/verifies signed
// credentials over canonicalized JSON.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"lukechampine.com/blake3"

	"github.com/veriminutes/veriminutes/keys"
)

// Service computes dual hashes and signs credentials with a long-lived
// identity. Safe for concurrent use; the identity is read-only.
type Service struct {
	identity *keys.Identity
}

// New constructs a hashing service bound to a signing identity.
func New(identity *keys.Identity) *Service {
	return &Service{identity: identity}
}

// ComputeHashes returns the hex SHA-256 and BLAKE3 digests of data plus its
// size. Pure function: data is neither truncated nor re-encoded.
func ComputeHashes(data []byte) (sha256Hex, blake3Hex string, size int64) {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return hex.EncodeToString(s[:]), hex.EncodeToString(b[:]), int64(len(data))
}

// FileHashes reads path and returns its SHA-256 and BLAKE3 hex digests and
// size. A missing file is a hard error.
func FileHashes(path string) (sha256Hex, blake3Hex string, size int64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", 0, err
	}
	sha256Hex, blake3Hex, size = ComputeHashes(data)
	return sha256Hex, blake3Hex, size, nil
}

// Sign returns the base64 Ed25519 signature over data. The caller is
// responsible for canonicalization; data is signed as raw bytes.
func (s *Service) Sign(data []byte) string {
	return s.identity.Sign(data)
}

// PublicKeyB64 returns the identity's base64 public key.
func (s *Service) PublicKeyB64() string {
	return s.identity.PublicKeyB64()
}

// VerifySignature verifies a base64 Ed25519 signature against a base64
// public key. Fails closed: decode errors, malformed keys and mismatched
// signatures all return false.
func (s *Service) VerifySignature(data []byte, signatureB64, publicKeyB64 string) bool {
	return keys.VerifyEd25519(data, signatureB64, publicKeyB64)
}
