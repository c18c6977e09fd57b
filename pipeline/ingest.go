package pipeline

import (
	"github.com/veriminutes/veriminutes/parse"
	"github.com/veriminutes/veriminutes/schema"
	"github.com/veriminutes/veriminutes/session"
)

// IngestResult identifies the session and artifacts produced by Ingest.
type IngestResult struct {
	Slug           string
	TranscriptPath string
	ManifestPath   string
}

// Ingest normalizes a raw transcript, persists it as the session's
// transcript artifact and records it in the manifest. Re-ingesting the same
// date/title overwrites that session's transcript artifact.
//
// attendees is the comma-separated list given by the caller; empty means
// attendees are extracted from the detected speakers.
func (pl *Pipeline) Ingest(rawPath, date, attendees, title string) (*IngestResult, error) {
	transcript, err := pl.parser.ParseFile(rawPath, date, title, parse.SplitAttendees(attendees))
	if err != nil {
		return nil, err
	}

	slug := session.Slug(date, title)

	transcriptPath, err := pl.store.StoreArtifact(slug, TranscriptFileName, transcript)
	if err != nil {
		return nil, err
	}
	manifestPath, err := pl.store.UpdateManifest(slug, "transcript", TranscriptFileName,
		map[string]any{"schema": schema.SchemaTranscriptV1})
	if err != nil {
		return nil, err
	}

	pl.log.Info().
		Str("slug", slug).
		Str("transcript", transcriptPath).
		Int("items", len(transcript.Items)).
		Msg("transcript ingested")

	return &IngestResult{
		Slug:           slug,
		TranscriptPath: transcriptPath,
		ManifestPath:   manifestPath,
	}, nil
}
