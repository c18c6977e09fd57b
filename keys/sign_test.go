package keys

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func TestVerifyEd25519_RoundTrip(t *testing.T) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		t.Fatalf("rand failed: %v", err)
	}
	id, err := FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}

	msg := []byte(`{"a":1}`)
	sig := id.Sign(msg)
	if !VerifyEd25519(msg, sig, id.PublicKeyB64()) {
		t.Fatalf("valid signature rejected")
	}
}

func TestVerifyEd25519_FailsClosed(t *testing.T) {
	id, err := FromSeed(make([]byte, 32))
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}
	msg := []byte("message")
	sig := id.Sign(msg)
	pub := id.PublicKeyB64()

	cases := []struct {
		name    string
		message []byte
		sig     string
		pub     string
	}{
		{"tampered message", []byte("Message"), sig, pub},
		{"invalid base64 signature", msg, "%%%not-base64%%%", pub},
		{"truncated signature", msg, base64.StdEncoding.EncodeToString(make([]byte, 10)), pub},
		{"invalid base64 key", msg, sig, "%%%not-base64%%%"},
		{"truncated key", msg, sig, base64.StdEncoding.EncodeToString(make([]byte, 5))},
		{"empty everything", nil, "", ""},
	}
	for _, tc := range cases {
		if VerifyEd25519(tc.message, tc.sig, tc.pub) {
			t.Fatalf("%s: expected false", tc.name)
		}
	}
}

func TestDigestFor_KnownAlgorithms(t *testing.T) {
	for _, alg := range []string{"sha256", "sha512", "sha3-256"} {
		d, err := DigestFor(alg, []byte("x"))
		if err != nil {
			t.Fatalf("DigestFor(%s) failed: %v", alg, err)
		}
		if len(d) == 0 {
			t.Fatalf("DigestFor(%s) returned empty digest", alg)
		}
	}
	if _, err := DigestFor("md5", []byte("x")); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestDilithium3_RoundTrip(t *testing.T) {
	pub, priv, err := GenerateDilithium3Keypair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair failed: %v", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(pubBytes)

	msg := []byte("structured minutes payload")
	sig, err := SignDilithium3(msg, "sha256", priv)
	if err != nil {
		t.Fatalf("SignDilithium3 failed: %v", err)
	}
	if !VerifyDilithium3(msg, sig, pubB64) {
		t.Fatalf("valid dilithium3 signature rejected")
	}
	if VerifyDilithium3([]byte("other payload"), sig, pubB64) {
		t.Fatalf("tampered message accepted")
	}
}
