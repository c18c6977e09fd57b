package hashing

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/veriminutes/veriminutes/keys"
	"github.com/veriminutes/veriminutes/schema"
)

// SignerTypeEd25519 is the signer type recorded in credentials produced by
// this service.
const SignerTypeEd25519 = "ed25519"

// CreateCredential reads the target file, computes both hashes and the
// size, and signs the canonical serialization of all fields except
// "signature".
func (s *Service) CreateCredential(targetPath, schemaName string) (*schema.Credential, error) {
	sha, b3, size, err := FileHashes(targetPath)
	if err != nil {
		return nil, err
	}

	cred := &schema.Credential{
		Target:    filepath.Base(targetPath),
		SHA256:    sha,
		BLAKE3:    b3,
		Size:      size,
		CreatedAt: schema.Timestamp(time.Now()),
		Schema:    schemaName,
		Signer: schema.Signer{
			Type:      SignerTypeEd25519,
			PublicKey: s.identity.PublicKeyB64(),
		},
	}

	payload, err := signingPayload(cred)
	if err != nil {
		return nil, err
	}
	cred.Signature = s.identity.Sign(payload)
	return cred, nil
}

// VerifyCredential checks cred against the current bytes of targetPath.
// Both checks must pass: the recomputed sha256/blake3/size must equal the
// stored values, and the signature must verify over the recanonicalized
// credential (minus "signature") against the embedded public key. Any
// discrepancy or decode failure yields false; this never returns an error.
func (s *Service) VerifyCredential(cred *schema.Credential, targetPath string) bool {
	if cred == nil {
		return false
	}
	sha, b3, size, err := FileHashes(targetPath)
	if err != nil {
		return false
	}
	if cred.SHA256 != sha || cred.BLAKE3 != b3 || cred.Size != size {
		return false
	}

	payload, err := signingPayload(cred)
	if err != nil {
		return false
	}
	switch cred.Signer.Type {
	case SignerTypeEd25519:
		return keys.VerifyEd25519(payload, cred.Signature, cred.Signer.PublicKey)
	case "dilithium3":
		return keys.VerifyDilithium3(payload, cred.Signature, cred.Signer.PublicKey)
	default:
		return false
	}
}

// signingPayload canonicalizes a credential with the "signature" field
// removed. This must be reproducible byte for byte or verification is
// undefined.
func signingPayload(cred *schema.Credential) ([]byte, error) {
	raw, err := json.Marshal(cred)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "signature")
	return schema.Canonical(m)
}
