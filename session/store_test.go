package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestSlug_Cases(t *testing.T) {
	cases := []struct {
		date  string
		title string
		want  string
	}{
		{"2026-03-04", "Q3 Board Meeting", "2026-03-04-q3-board-meeting"},
		{"2026-03-04", "", "2026-03-04"},
		{"2026-03-04", "!!!", "2026-03-04"},
		{"2026-03-04", "  Budget & Planning  ", "2026-03-04-budget-planning"},
		{"2026-03-04", "A--B", "2026-03-04-a-b"},
	}
	for _, tc := range cases {
		if got := Slug(tc.date, tc.title); got != tc.want {
			t.Fatalf("Slug(%q, %q): got %q want %q", tc.date, tc.title, got, tc.want)
		}
	}
}

func TestSlug_EmptyDateDefaultsToToday(t *testing.T) {
	got := Slug("", "standup")
	today := time.Now().Format("2006-01-02")
	if got != today+"-standup" {
		t.Fatalf("Slug with empty date: got %q", got)
	}
}

func TestSessionDir_CreatesCASSubtrees(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.SessionDir("2026-01-01-test")
	if err != nil {
		t.Fatalf("SessionDir failed: %v", err)
	}
	for _, sub := range []string{"cas/sha256", "cas/blake3"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing CAS subtree %s: %v", sub, err)
		}
	}
}

func TestStoreArtifact_SerializesStructured(t *testing.T) {
	s := newTestStore(t)
	path, err := s.StoreArtifact("slug", "doc.json", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("StoreArtifact failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "\"k\": \"v\"") {
		t.Fatalf("expected indented JSON, got %s", data)
	}
}

func TestStoreArtifact_RawBytesAndStrings(t *testing.T) {
	s := newTestStore(t)
	path, err := s.StoreArtifact("slug", "raw.txt", []byte("exact bytes"))
	if err != nil {
		t.Fatalf("StoreArtifact failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "exact bytes" {
		t.Fatalf("bytes not written verbatim: %q", data)
	}

	path, err = s.StoreArtifact("slug", "raw2.txt", "a string")
	if err != nil {
		t.Fatalf("StoreArtifact failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "a string" {
		t.Fatalf("string not written verbatim: %q", data)
	}
}

func TestStoreInCAS_WriteIfAbsent(t *testing.T) {
	s := newTestStore(t)
	hash := strings.Repeat("ab", 32)

	path, err := s.StoreInCAS("slug", "sha256", hash, []byte("original"))
	if err != nil {
		t.Fatalf("StoreInCAS failed: %v", err)
	}

	// A second write with the same hash must not clobber the object.
	again, err := s.StoreInCAS("slug", "sha256", hash, []byte("different"))
	if err != nil {
		t.Fatalf("StoreInCAS repeat failed: %v", err)
	}
	if again != path {
		t.Fatalf("path changed on repeat: %s vs %s", again, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("CAS object overwritten: %q", data)
	}
}

func TestReadArtifact_Missing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReadArtifact("slug", "absent.json")
	if err == nil {
		t.Fatalf("expected error for missing artifact")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadJSON_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.StoreArtifact("slug", "doc.json", map[string]int{"n": 7}); err != nil {
		t.Fatalf("StoreArtifact failed: %v", err)
	}
	var out map[string]int
	if err := s.ReadJSON("slug", "doc.json", &out); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if out["n"] != 7 {
		t.Fatalf("round trip: got %v", out)
	}
}

func TestListSessions_SortedAndSkipsHidden(t *testing.T) {
	s := newTestStore(t)
	for _, slug := range []string{"2026-02-01-b", "2026-01-01-a"} {
		if _, err := s.SessionDir(slug); err != nil {
			t.Fatalf("SessionDir failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(s.Root(), ".hidden"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	slugs, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "2026-01-01-a" || slugs[1] != "2026-02-01-b" {
		t.Fatalf("unexpected sessions: %v", slugs)
	}
}
