package schema

import "encoding/json"

// ManifestEntry is one artifact record in a session manifest. Extra metadata
// keys are flattened into the entry object on the wire, alongside the fixed
// fields.
type ManifestEntry struct {
	Type      string `json:"type"`
	FileName  string `json:"fileName"`
	Path      string `json:"path"`
	CreatedAt string `json:"createdAt"`

	// Metadata holds any additional keys. Keys that collide with the fixed
	// fields are ignored on output.
	Metadata map[string]any `json:"-"`
}

// Manifest is the per-session ledger of produced artifacts. Entries are
// ordered by insertion and keyed uniquely by FileName. CreatedAt is fixed at
// first creation; UpdatedAt is bumped on every mutation.
type Manifest struct {
	Slug      string          `json:"slug"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Artifacts []ManifestEntry `json:"artifacts"`
}

var manifestEntryFixed = map[string]bool{
	"type":      true,
	"fileName":  true,
	"path":      true,
	"createdAt": true,
}

func (e ManifestEntry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Metadata)+4)
	for k, v := range e.Metadata {
		if manifestEntryFixed[k] {
			continue
		}
		m[k] = v
	}
	m["type"] = e.Type
	m["fileName"] = e.FileName
	m["path"] = e.Path
	m["createdAt"] = e.CreatedAt
	return json.Marshal(m)
}

func (e *ManifestEntry) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if v, ok := m["type"].(string); ok {
		e.Type = v
	}
	if v, ok := m["fileName"].(string); ok {
		e.FileName = v
	}
	if v, ok := m["path"].(string); ok {
		e.Path = v
	}
	if v, ok := m["createdAt"].(string); ok {
		e.CreatedAt = v
	}
	for k := range manifestEntryFixed {
		delete(m, k)
	}
	if len(m) > 0 {
		e.Metadata = m
	} else {
		e.Metadata = nil
	}
	return nil
}
