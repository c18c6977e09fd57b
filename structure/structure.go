// Package structure extracts structured board minutes from normalized
// transcripts using keyword heuristics.
package structure

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/veriminutes/veriminutes/schema"
)

var (
	motionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(motion|move to|moved that|propose|resolution)\b`),
		regexp.MustCompile(`\b(second|seconded|seconding)\b`),
		regexp.MustCompile(`\b(vote|voting|voted|approve|approved|pass|passed|fail|failed|carried|defeated)\b`),
	}
	decisionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(decided|approved|resolved|concluded|agreed|ratified|adopted)\b`),
		regexp.MustCompile(`\b(decision|resolution|determination)\b`),
	}
	actionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(action item|todo|ai:|assign|assigned|owner|responsible|due|deadline)\b`),
		regexp.MustCompile(`\b(will|shall|must|need to|required to)\s+\w+`),
	}
	agendaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(\d+\.?\s*)?agenda:?\s*(.+)$`),
		regexp.MustCompile(`(?i)^item\s+\d+:?\s*(.+)$`),
		regexp.MustCompile(`(?i)^topic:?\s*(.+)$`),
	}

	passedPattern  = regexp.MustCompile(`approved|passed|carried`)
	failedPattern  = regexp.MustCompile(`failed|defeated|rejected`)
	forPattern     = regexp.MustCompile(`(\d+)\s*(for|in favor|yes)`)
	againstPattern = regexp.MustCompile(`(\d+)\s*(against|no|opposed)`)
	abstainPattern = regexp.MustCompile(`(\d+)\s*(abstain|abstention)`)
	ownerPattern   = regexp.MustCompile(`(?i)(assign|assigned to|owner:|responsible:)\s*([A-Za-z]+)`)
	duePattern     = regexp.MustCompile(`(?i)(due|deadline|by|before)\s*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})`)
	actionPrefix   = regexp.MustCompile(`(?i)(action item:|todo:|ai:)`)
)

// Structurer converts a normalized transcript into BoardMinutes_v1.
type Structurer struct{}

// New returns a Structurer.
func New() *Structurer { return &Structurer{} }

// Structure scans the transcript for agenda items, motions, decisions and
// actions, and assembles the structured minutes.
func (st *Structurer) Structure(t *schema.Transcript, sourceFile string) (*schema.BoardMinutes, error) {
	var agenda []schema.AgendaItem
	var motions []schema.Motion
	var decisions []schema.Decision
	var actions []schema.Action

	for i, item := range t.Items {
		lower := strings.ToLower(item.Text)

		if text, ok := agendaText(item.Text); ok {
			agenda = append(agenda, schema.AgendaItem{Item: text})
		}
		if matchesAny(motionPatterns, lower) {
			motions = append(motions, extractMotion(t.Items, i))
		}
		if matchesAny(decisionPatterns, lower) {
			decisions = append(decisions, schema.Decision{Text: strings.TrimSpace(item.Text)})
		}
		if matchesAny(actionPatterns, lower) {
			actions = append(actions, extractAction(item.Text, item.Speaker))
		}
	}

	title := t.Metadata.Title
	if title == "" {
		title = "Board Meeting"
	}

	return &schema.BoardMinutes{
		Title:     title,
		Date:      t.Metadata.Date,
		Attendees: t.Metadata.Attendees,
		Absent:    []string{},
		Agenda:    emptyIfNil(agenda),
		Motions:   emptyIfNil(motions),
		Decisions: emptyIfNil(decisions),
		Actions:   emptyIfNil(actions),
		Notes:     notes(t),
		Source:    schema.Source{Provider: t.Provider, File: filepath.Base(sourceFile)},
	}, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func agendaText(text string) (string, bool) {
	for _, p := range agendaPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			last := strings.TrimSpace(m[len(m)-1])
			if last != "" {
				return last, true
			}
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

// extractMotion reads up to the next ten items for a seconder and vote
// outcome.
func extractMotion(items []schema.TranscriptItem, start int) schema.Motion {
	motion := schema.Motion{
		Text: items[start].Text,
		Vote: schema.Vote{Result: "UNKNOWN"},
	}
	if mover := items[start].Speaker; mover != "Unknown" && mover != "Text" {
		motion.MovedBy = &mover
	}

	end := start + 10
	if end > len(items) {
		end = len(items)
	}
	for i := start + 1; i < end; i++ {
		lower := strings.ToLower(items[i].Text)

		if strings.Contains(lower, "second") {
			if sec := items[i].Speaker; sec != "Unknown" && sec != "Text" {
				motion.SecondedBy = &sec
			}
		}
		if passedPattern.MatchString(lower) {
			motion.Vote.Result = "PASSED"
		} else if failedPattern.MatchString(lower) {
			motion.Vote.Result = "FAILED"
		}
		if m := forPattern.FindStringSubmatch(lower); m != nil {
			motion.Vote.For, _ = strconv.Atoi(m[1])
		}
		if m := againstPattern.FindStringSubmatch(lower); m != nil {
			motion.Vote.Against, _ = strconv.Atoi(m[1])
		}
		if m := abstainPattern.FindStringSubmatch(lower); m != nil {
			motion.Vote.Abstain, _ = strconv.Atoi(m[1])
		}
	}
	return motion
}

func extractAction(text, speaker string) schema.Action {
	owner := "TBD"
	if speaker != "Unknown" && speaker != "Text" {
		owner = speaker
	}
	if m := ownerPattern.FindStringSubmatch(text); m != nil {
		owner = m[2]
	}

	action := schema.Action{
		Owner: owner,
		Text:  strings.TrimSpace(actionPrefix.ReplaceAllString(text, "")),
	}
	if m := duePattern.FindStringSubmatch(text); m != nil {
		due := m[2]
		action.Due = &due
	}
	return action
}

// notes summarizes the transcript: item count and participants.
func notes(t *schema.Transcript) string {
	seen := make(map[string]bool)
	for _, item := range t.Items {
		if item.Speaker != "Unknown" && item.Speaker != "Text" {
			seen[item.Speaker] = true
		}
	}
	speakers := make([]string, 0, len(seen))
	for s := range seen {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)

	return fmt.Sprintf("Meeting transcript contained %d speaking turns. Participants: %s.",
		len(t.Items), strings.Join(speakers, ", "))
}
