// Package quiz tracks per-challenge answer submissions. Once an answer is
// recorded for an index the challenge is revealed; a later submission for
// the same index does not overwrite the first.
package quiz

import (
	"fmt"
	"sync"

	"github.com/docubrain/backend/internal/docerr"
	"github.com/docubrain/backend/internal/models"
)

// Manager owns quiz submissions for all active documents. Like the
// conversation log, the state is transient.
type Manager struct {
	mu      sync.Mutex
	answers map[string]map[int]string
}

func NewManager() *Manager {
	return &Manager{answers: make(map[string]map[int]string)}
}

func key(userID, docID string) string {
	return userID + "/" + docID
}

// Submit records the user's answer for the challenge at index and returns
// the reveal payload. The first submission for an index wins; resubmitting
// returns the original recorded answer alongside the fixed correct answer
// and reference.
func (m *Manager) Submit(userID, docID string, challenges []models.Challenge, index int, answer string) (models.ChallengeResult, error) {
	if index < 0 || index >= len(challenges) {
		return models.ChallengeResult{}, fmt.Errorf("%w: challenge index %d out of range [0,%d)",
			docerr.ErrInvalidInput, index, len(challenges))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byIndex := m.answers[key(userID, docID)]
	if byIndex == nil {
		byIndex = make(map[int]string)
		m.answers[key(userID, docID)] = byIndex
	}
	if _, ok := byIndex[index]; !ok {
		byIndex[index] = answer
	}

	c := challenges[index]
	return models.ChallengeResult{
		Index:         index,
		Question:      c.Question,
		YourAnswer:    byIndex[index],
		CorrectAnswer: c.Answer,
		Reference:     c.Reference,
	}, nil
}

// Status returns every challenge with its submission state, in batch order.
// Correct answers and references are only exposed for answered challenges.
func (m *Manager) Status(userID, docID string, challenges []models.Challenge) []models.ChallengeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	byIndex := m.answers[key(userID, docID)]
	out := make([]models.ChallengeStatus, len(challenges))
	for i, c := range challenges {
		status := models.ChallengeStatus{Index: i, Question: c.Question}
		if answer, ok := byIndex[i]; ok {
			status.Submitted = true
			status.YourAnswer = answer
			status.Answer = c.Answer
			status.Reference = c.Reference
		}
		out[i] = status
	}
	return out
}

// Drop discards all quiz state for a document.
func (m *Manager) Drop(userID, docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.answers, key(userID, docID))
}
