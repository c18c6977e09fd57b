package structure

import (
	"strings"
	"testing"

	"github.com/veriminutes/veriminutes/schema"
)

func transcriptFrom(lines map[int]struct{ speaker, text string }, n int) *schema.Transcript {
	items := make([]schema.TranscriptItem, n)
	for i := 0; i < n; i++ {
		items[i] = schema.TranscriptItem{Idx: i, Speaker: "Text", Text: ""}
		if l, ok := lines[i]; ok {
			items[i] = schema.TranscriptItem{Idx: i, Speaker: l.speaker, Text: l.text}
		}
	}
	return &schema.Transcript{
		Provider: "txt",
		Items:    items,
		Metadata: schema.TranscriptMeta{
			Date:      "2026-03-04",
			Title:     "Q3 Board Meeting",
			Attendees: []string{"Alice", "Bob", "Carol"},
		},
	}
}

func TestStructure_MotionWithVote(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Alice", "I move to approve the annual budget."},
		1: {"Bob", "I second the motion."},
		2: {"Carol", "The motion passed with 5 for, 1 against, 0 abstain."},
	}, 3)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Motions) == 0 {
		t.Fatalf("expected at least one motion")
	}
	motion := m.Motions[0]
	if motion.MovedBy == nil || *motion.MovedBy != "Alice" {
		t.Fatalf("movedBy: got %v", motion.MovedBy)
	}
	if motion.SecondedBy == nil || *motion.SecondedBy != "Bob" {
		t.Fatalf("secondedBy: got %v", motion.SecondedBy)
	}
	if motion.Vote.Result != "PASSED" {
		t.Fatalf("vote result: got %s", motion.Vote.Result)
	}
	if motion.Vote.For != 5 || motion.Vote.Against != 1 || motion.Vote.Abstain != 0 {
		t.Fatalf("vote tally: %+v", motion.Vote)
	}
}

func TestStructure_FailedMotion(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Alice", "Motion to extend the meeting."},
		1: {"Bob", "The motion failed."},
	}, 2)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Motions) == 0 {
		t.Fatalf("expected a motion")
	}
	if m.Motions[0].Vote.Result != "FAILED" {
		t.Fatalf("vote result: got %s", m.Motions[0].Vote.Result)
	}
}

func TestStructure_Agenda(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Text", "Agenda: Budget review"},
		1: {"Text", "Item 2: Hiring plan"},
		2: {"Text", "Topic: Office move"},
	}, 3)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Agenda) != 3 {
		t.Fatalf("agenda: got %d want 3: %+v", len(m.Agenda), m.Agenda)
	}
	if m.Agenda[0].Item != "Budget review" {
		t.Fatalf("agenda item: got %q", m.Agenda[0].Item)
	}
}

func TestStructure_ActionOwnerAndDue(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Carol", "Action item: send the report, owner: Dave, due 10/15/2026."},
	}, 1)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Actions) == 0 {
		t.Fatalf("expected an action")
	}
	action := m.Actions[0]
	if action.Owner != "Dave" {
		t.Fatalf("owner: got %s want Dave", action.Owner)
	}
	if action.Due == nil || *action.Due != "10/15/2026" {
		t.Fatalf("due: got %v", action.Due)
	}
	if strings.Contains(strings.ToLower(action.Text), "action item:") {
		t.Fatalf("action prefix not stripped: %q", action.Text)
	}
}

func TestStructure_ActionOwnerDefaultsToSpeaker(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Bob", "I will prepare the slides for next week."},
	}, 1)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Actions) == 0 {
		t.Fatalf("expected an action")
	}
	if m.Actions[0].Owner != "Bob" {
		t.Fatalf("owner: got %s want Bob", m.Actions[0].Owner)
	}
}

func TestStructure_Decision(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Alice", "It was decided to postpone the vendor contract."},
	}, 1)

	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(m.Decisions) == 0 {
		t.Fatalf("expected a decision")
	}
}

func TestStructure_EmptySlicesNeverNil(t *testing.T) {
	tr := transcriptFrom(nil, 2)
	m, err := New().Structure(tr, "meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if m.Agenda == nil || m.Motions == nil || m.Decisions == nil || m.Actions == nil || m.Absent == nil {
		t.Fatalf("nil slices in structured minutes: %+v", m)
	}
}

func TestStructure_NotesAndSource(t *testing.T) {
	tr := transcriptFrom(map[int]struct{ speaker, text string }{
		0: {"Alice", "Hello."},
		1: {"Bob", "Hi."},
	}, 2)

	m, err := New().Structure(tr, "/tmp/dir/meeting.txt")
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	want := "Meeting transcript contained 2 speaking turns. Participants: Alice, Bob."
	if m.Notes != want {
		t.Fatalf("notes: got %q want %q", m.Notes, want)
	}
	if m.Source.File != "meeting.txt" || m.Source.Provider != "txt" {
		t.Fatalf("source: %+v", m.Source)
	}
	if m.Title != "Q3 Board Meeting" || m.Date != "2026-03-04" {
		t.Fatalf("header: %+v", m)
	}
}
