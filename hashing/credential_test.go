package hashing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veriminutes/veriminutes/schema"
)

func writeTarget(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minutes.json")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestCreateCredential_Fields(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte(`{"title":"Q3 Review"}`))

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	if cred.Target != "minutes.json" {
		t.Fatalf("target: got %s want minutes.json", cred.Target)
	}
	if cred.Schema != schema.SchemaBoardMinutesV1 {
		t.Fatalf("schema: got %s", cred.Schema)
	}
	if len(cred.SHA256) != 64 || len(cred.BLAKE3) != 64 {
		t.Fatalf("digest lengths: sha=%d b3=%d", len(cred.SHA256), len(cred.BLAKE3))
	}
	if cred.Size != int64(len(`{"title":"Q3 Review"}`)) {
		t.Fatalf("size: got %d", cred.Size)
	}
	if cred.Signer.Type != SignerTypeEd25519 {
		t.Fatalf("signer type: got %s", cred.Signer.Type)
	}
	if cred.Signer.PublicKey != s.PublicKeyB64() {
		t.Fatalf("signer public key mismatch")
	}
	if cred.Signature == "" {
		t.Fatalf("signature must not be empty")
	}
}

func TestVerifyCredential_RoundTrip(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte(`{"title":"Q3 Review"}`))

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	if !s.VerifyCredential(cred, path) {
		t.Fatalf("fresh credential did not verify")
	}
}

func TestVerifyCredential_TamperedFile(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte(`{"title":"Q3 Review"}`))

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"title":"Q3 review"}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if s.VerifyCredential(cred, path) {
		t.Fatalf("tampered file verified")
	}
}

func TestVerifyCredential_TamperedSignature(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte(`{"title":"Q3 Review"}`))

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}

	sig := []byte(cred.Signature)
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	cred.Signature = string(sig)
	if s.VerifyCredential(cred, path) {
		t.Fatalf("tampered signature verified")
	}
}

func TestVerifyCredential_TamperedField(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte(`{"title":"Q3 Review"}`))

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	cred.Schema = "Transcript_v1"
	if s.VerifyCredential(cred, path) {
		t.Fatalf("credential with altered field verified")
	}
}

func TestVerifyCredential_FailsClosed(t *testing.T) {
	s := newTestService(t)
	path := writeTarget(t, []byte("x"))

	if s.VerifyCredential(nil, path) {
		t.Fatalf("nil credential verified")
	}

	cred, err := s.CreateCredential(path, schema.SchemaBoardMinutesV1)
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	if s.VerifyCredential(cred, filepath.Join(t.TempDir(), "absent")) {
		t.Fatalf("credential verified against missing file")
	}

	cred.Signer.Type = "rsa"
	if s.VerifyCredential(cred, path) {
		t.Fatalf("unknown signer type verified")
	}
}
