package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// SeedFileName is the file under the keys directory holding the raw
// 32-byte Ed25519 seed.
const SeedFileName = "ed25519.key"

// Identity is the process-wide signing identity. Immutable after
// construction.
type Identity struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// DefaultDirectory returns the default keys directory, ~/.veriminutes/keys.
func DefaultDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".veriminutes", "keys"), nil
}

// LoadOrCreate loads the Ed25519 identity from dir, generating and
// persisting a new one if none exists. The seed file is created with
// owner-only permissions. An empty dir selects DefaultDirectory.
func LoadOrCreate(dir string) (*Identity, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, SeedFileName)
	seed, err := os.ReadFile(path)
	if err == nil {
		return FromSeed(seed)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	seed = make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			// Lost a creation race; the winner's seed is authoritative.
			existing, rerr := os.ReadFile(path)
			if rerr != nil {
				return nil, rerr
			}
			return FromSeed(existing)
		}
		return nil, err
	}
	if _, err := f.Write(seed); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}
	return FromSeed(seed)
}

// FromSeed constructs an Identity from a raw 32-byte Ed25519 seed.
func FromSeed(seed []byte) (*Identity, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("keys: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Identity{priv: priv, pub: priv.Public().(ed25519.PublicKey)}, nil
}

// Sign returns the base64 Ed25519 signature over message. The message is
// signed as-is; callers canonicalize before signing. Ed25519 signatures are
// deterministic for a given message and key.
func (id *Identity) Sign(message []byte) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(id.priv, message))
}

// PublicKeyB64 returns the base64 encoding of the public key, as embedded
// in credentials.
func (id *Identity) PublicKeyB64() string {
	return base64.StdEncoding.EncodeToString(id.pub)
}

// Public returns the raw public key.
func (id *Identity) Public() ed25519.PublicKey {
	return id.pub
}
