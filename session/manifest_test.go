package session

import (
	"testing"
)

func TestManifest_FreshWhenMissing(t *testing.T) {
	s := newTestStore(t)
	m, err := s.Manifest("2026-01-01-x")
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if m.Slug != "2026-01-01-x" {
		t.Fatalf("slug: got %s", m.Slug)
	}
	if m.CreatedAt == "" || m.UpdatedAt == "" {
		t.Fatalf("fresh manifest missing timestamps: %+v", m)
	}
	if len(m.Artifacts) != 0 {
		t.Fatalf("fresh manifest has artifacts: %+v", m.Artifacts)
	}
}

func TestUpdateManifest_AccumulatesEntries(t *testing.T) {
	s := newTestStore(t)
	slug := "2026-01-01-x"

	if _, err := s.UpdateManifest(slug, "transcript", "transcript.normalized.json", nil); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}
	if _, err := s.UpdateManifest(slug, "minutes", "minutes.json", map[string]any{"schema": "BoardMinutes_v1"}); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}

	m, err := s.Manifest(slug)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(m.Artifacts) != 2 {
		t.Fatalf("artifacts: got %d want 2", len(m.Artifacts))
	}
	if m.Artifacts[0].FileName != "transcript.normalized.json" {
		t.Fatalf("first entry clobbered: %+v", m.Artifacts[0])
	}
	if m.Artifacts[1].Metadata["schema"] != "BoardMinutes_v1" {
		t.Fatalf("metadata not persisted: %+v", m.Artifacts[1])
	}
}

func TestUpdateManifest_ReplacesSameFileName(t *testing.T) {
	s := newTestStore(t)
	slug := "2026-01-01-x"

	if _, err := s.UpdateManifest(slug, "minutes", "minutes.json", map[string]any{"rev": "1"}); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}
	if _, err := s.UpdateManifest(slug, "minutes", "minutes.json", map[string]any{"rev": "2"}); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}

	m, err := s.Manifest(slug)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(m.Artifacts) != 1 {
		t.Fatalf("duplicate fileName not replaced: %d entries", len(m.Artifacts))
	}
	if m.Artifacts[0].Metadata["rev"] != "2" {
		t.Fatalf("entry not refreshed: %+v", m.Artifacts[0])
	}
}

func TestUpdateManifest_PreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	slug := "2026-01-01-x"

	if _, err := s.UpdateManifest(slug, "transcript", "transcript.normalized.json", nil); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}
	first, err := s.Manifest(slug)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}

	if _, err := s.UpdateManifest(slug, "minutes", "minutes.json", nil); err != nil {
		t.Fatalf("UpdateManifest failed: %v", err)
	}
	second, err := s.Manifest(slug)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}

	if second.CreatedAt != first.CreatedAt {
		t.Fatalf("createdAt changed: %s vs %s", second.CreatedAt, first.CreatedAt)
	}
	if second.UpdatedAt < first.UpdatedAt {
		t.Fatalf("updatedAt went backwards: %s vs %s", second.UpdatedAt, first.UpdatedAt)
	}
}
