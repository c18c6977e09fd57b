// Package parse normalizes plain-text transcripts into the Transcript_v1
// wire form consumed by the pipeline.
package parse

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/veriminutes/veriminutes/schema"
)

var speakerPattern = regexp.MustCompile(`^\s*([A-Za-z][\w .\-]{0,50}):\s+(.+)$`)

// TxtParser turns raw text into a normalized transcript. Every original
// line is preserved verbatim as an item; speaker labels are detected for
// metadata only.
type TxtParser struct{}

// New returns a TxtParser.
func New() *TxtParser { return &TxtParser{} }

// ParseFile reads path and normalizes it. Date defaults to today, title to
// the file name; empty attendees are filled from the detected speakers.
func (p *TxtParser) ParseFile(path, date, title string, attendees []string) (*schema.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	items := make([]schema.TranscriptItem, 0, len(lines))
	currentSpeaker := "Unknown"

	for idx, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		speaker := "Text"
		if m := speakerPattern.FindStringSubmatch(line); m != nil {
			currentSpeaker = strings.TrimSpace(m[1])
			speaker = currentSpeaker
		}
		items = append(items, schema.TranscriptItem{
			Idx:     idx,
			Speaker: speaker,
			Text:    line,
		})
	}

	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if title == "" {
		name := filepath.Base(path)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if len(attendees) == 0 {
		attendees = extractAttendees(items)
	}

	return &schema.Transcript{
		Provider: "txt",
		Items:    items,
		Metadata: schema.TranscriptMeta{
			Date:      date,
			Title:     title,
			Attendees: attendees,
		},
	}, nil
}

// extractAttendees collects the unique detected speakers, sorted.
func extractAttendees(items []schema.TranscriptItem) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		if item.Speaker != "" && item.Speaker != "Unknown" && item.Speaker != "Text" {
			seen[item.Speaker] = true
		}
	}
	attendees := make([]string, 0, len(seen))
	for s := range seen {
		attendees = append(attendees, s)
	}
	sort.Strings(attendees)
	return attendees
}

// SplitAttendees turns a comma-separated attendee list into trimmed names.
func SplitAttendees(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}
