package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docubrain/backend/internal/docerr"
	"github.com/docubrain/backend/internal/models"
)

// fakeGateway implements ai.Gateway with canned results and optional
// per-operation failures and delays.
type fakeGateway struct {
	summary        string
	summaryErr     error
	summaryDelay   time.Duration
	challenges     []models.Challenge
	challengesErr  error
	answer         string
	justification  string
	answerErr      error
	challengeCalls int
}

func (f *fakeGateway) Summarize(ctx context.Context, documentContent string) (string, error) {
	if f.summaryDelay > 0 {
		select {
		case <-time.After(f.summaryDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.summary, f.summaryErr
}

func (f *fakeGateway) GenerateChallenges(ctx context.Context, documentText string, numQuestions int) ([]models.Challenge, error) {
	f.challengeCalls = numQuestions
	return f.challenges, f.challengesErr
}

func (f *fakeGateway) AnswerQuestion(ctx context.Context, documentContent, question string) (string, string, error) {
	return f.answer, f.justification, f.answerErr
}

func threeChallenges() []models.Challenge {
	return []models.Challenge{
		{Question: "Q1", Answer: "A1", Reference: "R1"},
		{Question: "Q2", Answer: "A2", Reference: "R2"},
		{Question: "Q3", Answer: "A3", Reference: "R3"},
	}
}

func TestProcessAssemblesDocument(t *testing.T) {
	gw := &fakeGateway{summary: "a summary", challenges: threeChallenges()}
	p := NewProcessor(gw)

	doc, err := p.Process(context.Background(), "notes.txt", "The sky is blue. Water boils at 100°C.")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if doc.Name != "notes.txt" || doc.Summary != "a summary" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if len(doc.Challenges) != 3 {
		t.Errorf("expected 3 challenges, got %d", len(doc.Challenges))
	}
	if gw.challengeCalls != 3 {
		t.Errorf("expected numQuestions=3, got %d", gw.challengeCalls)
	}
}

func TestProcessFailsWhenSummaryFails(t *testing.T) {
	gw := &fakeGateway{summaryErr: errors.New("boom"), challenges: threeChallenges()}
	p := NewProcessor(gw)

	doc, err := p.Process(context.Background(), "notes.txt", "content")
	if !errors.Is(err, docerr.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if doc != nil {
		t.Errorf("no partial document may be produced, got %+v", doc)
	}
}

func TestProcessFailsWhenChallengesFail(t *testing.T) {
	// The summary side is slow and would succeed; the failing challenge call
	// must still fail the join without a partial result.
	gw := &fakeGateway{
		summary:       "a summary",
		summaryDelay:  50 * time.Millisecond,
		challengesErr: errors.New("boom"),
	}
	p := NewProcessor(gw)

	doc, err := p.Process(context.Background(), "notes.txt", "content")
	if !errors.Is(err, docerr.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if doc != nil {
		t.Errorf("no partial document may be produced, got %+v", doc)
	}
}
