// Package session persists per-session artifacts, a hash-keyed CAS subtree
// and an append/replace manifest under a slug-named directory.
//
// Sessions are created on first ingest and mutated on every build step; the
// core never deletes them. There is no locking around a session directory:
// two concurrent builds of the same slug can interleave writes. CAS writes
// are safe to race because they are content-addressed and create-or-skip.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Store manages session directories under a single output root.
type Store struct {
	root string
}

// New constructs a store rooted at root, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("session: output root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the output root directory.
func (s *Store) Root() string { return s.root }

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the session identifier from a date and title. The date
// defaults to today; a title is lower-cased, non-alphanumeric runs collapse
// to a dash, and the fragment is appended after the date.
func Slug(date, title string) string {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	slug := date
	if title != "" {
		frag := slugNonAlnum.ReplaceAllString(strings.ToLower(title), "-")
		frag = strings.Trim(frag, "-")
		if frag != "" {
			slug = date + "-" + frag
		}
	}
	return slug
}

// SessionDir idempotently ensures the session directory and its
// cas/sha256 and cas/blake3 subtrees exist. Existing content is never
// destroyed.
func (s *Store) SessionDir(slug string) (string, error) {
	dir := filepath.Join(s.root, slug)
	for _, sub := range []string{
		filepath.Join(dir, "cas", "sha256"),
		filepath.Join(dir, "cas", "blake3"),
	} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// StoreArtifact writes an artifact into the session directory, overwriting
// any prior file of the same name. Structured content is serialized as
// indented JSON; strings and raw bytes are written as-is.
func (s *Store) StoreArtifact(slug, fileName string, content any) (string, error) {
	dir, err := s.SessionDir(slug)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)

	var data []byte
	switch v := content.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// StoreInCAS writes content under cas/<algo>/<hashValue>, only if absent.
// Content-addressing makes the write idempotent: an identical hash implies
// identical content, so an existing object is left untouched. The create is
// atomic (O_EXCL), so racing writers cannot corrupt an object.
func (s *Store) StoreInCAS(slug, algo, hashValue string, content []byte) (string, error) {
	dir, err := s.SessionDir(slug)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "cas", algo, hashValue)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return path, nil
		}
		return "", err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// ReadArtifact returns the raw bytes of an artifact. A missing artifact is
// ErrNotFound, never an empty default.
func (s *Store) ReadArtifact(slug, fileName string) ([]byte, error) {
	dir, err := s.SessionDir(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, slug, fileName)
		}
		return nil, err
	}
	return data, nil
}

// ReadJSON reads a JSON artifact and decodes it into out.
func (s *Store) ReadJSON(slug, fileName string, out any) error {
	data, err := s.ReadArtifact(slug, fileName)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ListSessions returns all top-level session directories, sorted. Hidden
// directories are skipped.
func (s *Store) ListSessions() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			slugs = append(slugs, e.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}
