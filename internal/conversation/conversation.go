// Package conversation tracks the multi-turn Q&A history against one
// document. Turns are keyed by an identifier assigned at submission time, so
// overlapping submissions resolve into their own turns regardless of which
// model call finishes first.
package conversation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/docubrain/backend/internal/docerr"
)

// Turn is one question/answer pair. Answer and Justification stay empty
// while the turn is pending.
type Turn struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	Justification string `json:"justification"`
	Pending       bool   `json:"pending"`
}

// history is the append-only turn sequence for one (user, document) pair.
type history struct {
	turns []*Turn
	byID  map[string]*Turn
}

// Manager owns conversation state for all active documents. State is
// transient; it disappears with the process and is dropped when a document
// is deleted.
type Manager struct {
	mu   sync.Mutex
	logs map[string]*history
}

func NewManager() *Manager {
	return &Manager{logs: make(map[string]*history)}
}

func key(userID, docID string) string {
	return userID + "/" + docID
}

// Submit appends a pending turn for the question and returns its identifier.
func (m *Manager) Submit(userID, docID, question string) Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.logs[key(userID, docID)]
	if l == nil {
		l = &history{byID: make(map[string]*Turn)}
		m.logs[key(userID, docID)] = l
	}

	turn := &Turn{
		ID:       uuid.New().String(),
		Question: question,
		Pending:  true,
	}
	l.turns = append(l.turns, turn)
	l.byID[turn.ID] = turn
	return *turn
}

// Resolve writes the answer into the identified turn.
func (m *Manager) Resolve(userID, docID, turnID, answer, justification string) (Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turn, err := m.lookup(userID, docID, turnID)
	if err != nil {
		return Turn{}, err
	}
	turn.Answer = answer
	turn.Justification = justification
	turn.Pending = false
	return *turn, nil
}

// Rollback removes the identified turn from the sequence, wherever it sits.
func (m *Manager) Rollback(userID, docID, turnID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.logs[key(userID, docID)]
	if l == nil {
		return fmt.Errorf("%w: turn %s", docerr.ErrNotFound, turnID)
	}
	if _, ok := l.byID[turnID]; !ok {
		return fmt.Errorf("%w: turn %s", docerr.ErrNotFound, turnID)
	}
	delete(l.byID, turnID)
	for i, t := range l.turns {
		if t.ID == turnID {
			l.turns = append(l.turns[:i], l.turns[i+1:]...)
			break
		}
	}
	return nil
}

// Turns returns the conversation in insertion order.
func (m *Manager) Turns(userID, docID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.logs[key(userID, docID)]
	if l == nil {
		return []Turn{}
	}
	out := make([]Turn, len(l.turns))
	for i, t := range l.turns {
		out[i] = *t
	}
	return out
}

// Drop discards all conversation state for a document.
func (m *Manager) Drop(userID, docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, key(userID, docID))
}

func (m *Manager) lookup(userID, docID, turnID string) (*Turn, error) {
	l := m.logs[key(userID, docID)]
	if l == nil {
		return nil, fmt.Errorf("%w: turn %s", docerr.ErrNotFound, turnID)
	}
	turn, ok := l.byID[turnID]
	if !ok {
		return nil, fmt.Errorf("%w: turn %s", docerr.ErrNotFound, turnID)
	}
	return turn, nil
}
