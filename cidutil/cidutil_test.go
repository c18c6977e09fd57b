package cidutil

import (
	"strings"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestCIDv1RawSHA256_Properties(t *testing.T) {
	id, err := CIDv1RawSHA256CID([]byte("artifact bytes"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if id.Version() != 1 {
		t.Fatalf("version: got %d want 1", id.Version())
	}
	if id.Type() != cid.Raw {
		t.Fatalf("codec: got %d want raw", id.Type())
	}
	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		t.Fatalf("multihash.Decode failed: %v", err)
	}
	if decoded.Code != multihash.SHA2_256 {
		t.Fatalf("hash code: got %d want sha2-256", decoded.Code)
	}
}

func TestCIDv1RawSHA256_StringMatchesCID(t *testing.T) {
	data := []byte("same bytes")
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	s := CIDv1RawSHA256(data)
	if s != id.String() {
		t.Fatalf("string form mismatch: %s vs %s", s, id.String())
	}
	if !strings.HasPrefix(s, "bafk") {
		t.Fatalf("unexpected CID prefix: %s", s)
	}
}

func TestCIDv1RawSHA256_DistinctInputs(t *testing.T) {
	if CIDv1RawSHA256([]byte("a")) == CIDv1RawSHA256([]byte("b")) {
		t.Fatalf("distinct inputs produced identical CIDs")
	}
}
