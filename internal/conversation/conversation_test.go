package conversation

import (
	"errors"
	"testing"

	"github.com/docubrain/backend/internal/docerr"
)

const (
	user = "user-1"
	doc  = "doc-1"
)

func TestSubmitAndResolve(t *testing.T) {
	m := NewManager()

	turn := m.Submit(user, doc, "What color is the sky?")
	if !turn.Pending || turn.Answer != "" || turn.Justification != "" {
		t.Fatalf("submitted turn should be pending and empty: %+v", turn)
	}

	resolved, err := m.Resolve(user, doc, turn.ID, "Blue.", "The sky is blue.")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Pending || resolved.Answer != "Blue." {
		t.Errorf("unexpected resolved turn: %+v", resolved)
	}
}

func TestInterleavedSubmissionsResolveByID(t *testing.T) {
	m := NewManager()

	q1 := m.Submit(user, doc, "Q1")
	q2 := m.Submit(user, doc, "Q2")

	// Q2's answer arrives before Q1's.
	if _, err := m.Resolve(user, doc, q2.ID, "A2", "J2"); err != nil {
		t.Fatalf("resolve q2: %v", err)
	}
	if _, err := m.Resolve(user, doc, q1.ID, "A1", "J1"); err != nil {
		t.Fatalf("resolve q1: %v", err)
	}

	turns := m.Turns(user, doc)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Question != "Q1" || turns[0].Answer != "A1" {
		t.Errorf("turn 0 got the wrong answer: %+v", turns[0])
	}
	if turns[1].Question != "Q2" || turns[1].Answer != "A2" {
		t.Errorf("turn 1 got the wrong answer: %+v", turns[1])
	}
}

func TestRollbackRestoresLength(t *testing.T) {
	m := NewManager()

	m.Submit(user, doc, "First")
	before := len(m.Turns(user, doc))

	failed := m.Submit(user, doc, "Second")
	if err := m.Rollback(user, doc, failed.ID); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if got := len(m.Turns(user, doc)); got != before {
		t.Errorf("expected %d turns after rollback, got %d", before, got)
	}
}

func TestRollbackMiddleTurn(t *testing.T) {
	m := NewManager()

	q1 := m.Submit(user, doc, "Q1")
	q2 := m.Submit(user, doc, "Q2")
	q3 := m.Submit(user, doc, "Q3")

	// Q2 fails while Q1 and Q3 are still in flight.
	if err := m.Rollback(user, doc, q2.ID); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if _, err := m.Resolve(user, doc, q1.ID, "A1", ""); err != nil {
		t.Fatalf("resolve q1: %v", err)
	}
	if _, err := m.Resolve(user, doc, q3.ID, "A3", ""); err != nil {
		t.Fatalf("resolve q3: %v", err)
	}

	turns := m.Turns(user, doc)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Question != "Q1" || turns[1].Question != "Q3" {
		t.Errorf("wrong turns survived: %+v", turns)
	}
}

func TestResolveUnknownTurn(t *testing.T) {
	m := NewManager()
	if _, err := m.Resolve(user, doc, "nope", "A", "J"); !errors.Is(err, docerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDropDiscardsState(t *testing.T) {
	m := NewManager()
	m.Submit(user, doc, "Q1")
	m.Drop(user, doc)
	if turns := m.Turns(user, doc); len(turns) != 0 {
		t.Errorf("expected empty conversation after drop, got %d turns", len(turns))
	}
}

func TestConversationsAreIsolated(t *testing.T) {
	m := NewManager()
	m.Submit(user, "doc-a", "Q for a")
	m.Submit(user, "doc-b", "Q for b")
	m.Submit("other-user", "doc-a", "their question")

	if got := len(m.Turns(user, "doc-a")); got != 1 {
		t.Errorf("doc-a: expected 1 turn, got %d", got)
	}
	if got := len(m.Turns(user, "doc-b")); got != 1 {
		t.Errorf("doc-b: expected 1 turn, got %d", got)
	}
}
