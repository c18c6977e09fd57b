package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/veriminutes/veriminutes/schema"
)

// ManifestFileName is the per-session manifest artifact.
const ManifestFileName = "manifest.json"

// Manifest loads the session manifest, or returns a fresh one if none has
// been written yet.
func (s *Store) Manifest(slug string) (*schema.Manifest, error) {
	dir, err := s.SessionDir(slug)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, ManifestFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		now := schema.Timestamp(time.Now())
		return &schema.Manifest{Slug: slug, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	var m schema.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateManifest records an artifact in the manifest: any existing entry
// with the same fileName is removed, a fresh entry stamped with the current
// time is appended, and updatedAt is bumped. CreatedAt is fixed at first
// manifest creation and survives every subsequent update.
func (s *Store) UpdateManifest(slug, artifactType, fileName string, metadata map[string]any) (string, error) {
	dir, err := s.SessionDir(slug)
	if err != nil {
		return "", err
	}
	m, err := s.Manifest(slug)
	if err != nil {
		return "", err
	}

	entry := schema.ManifestEntry{
		Type:      artifactType,
		FileName:  fileName,
		Path:      filepath.Join(dir, fileName),
		CreatedAt: schema.Timestamp(time.Now()),
		Metadata:  metadata,
	}

	kept := m.Artifacts[:0]
	for _, a := range m.Artifacts {
		if a.FileName != fileName {
			kept = append(kept, a)
		}
	}
	m.Artifacts = append(kept, entry)
	m.UpdatedAt = schema.Timestamp(time.Now())

	return s.StoreArtifact(slug, ManifestFileName, m)
}
