package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Challenge is one AI-generated comprehension question with its expected
// answer and a verbatim supporting quote from the source text.
type Challenge struct {
	Question  string `json:"question"  bson:"question"`
	Answer    string `json:"answer"    bson:"answer"`
	Reference string `json:"reference" bson:"reference"`
}

// ProcessedDocument is the aggregate result of running the summary and
// challenge-generation operations over one uploaded document. It is
// immutable once stored; a new upload produces a new record.
type ProcessedDocument struct {
	ID            primitive.ObjectID `json:"id"              bson:"_id,omitempty"`
	UserID        string             `json:"user_id"         bson:"user_id"`
	Name          string             `json:"name"            bson:"name"`
	Content       string             `json:"content"         bson:"content"`
	Summary       string             `json:"summary"         bson:"summary"`
	Challenges    []Challenge        `json:"challenges"      bson:"challenges"`
	FileObjectKey string             `json:"file_object_key" bson:"file_object_key"`
	ContentType   string             `json:"content_type"    bson:"content_type"`
	CreatedAt     time.Time          `json:"created_at"      bson:"created_at"`
}

// DocumentSummary is the history-list projection of a processed document.
type DocumentSummary struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id"`
	Name      string             `json:"name"       bson:"name"`
	Summary   string             `json:"summary"    bson:"summary"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// AskRequest is the JSON body for POST /api/documents/{id}/questions.
type AskRequest struct {
	Question string `json:"question"`
}

// QuizSubmission is the JSON body for POST /api/documents/{id}/challenges/{index}.
type QuizSubmission struct {
	Answer string `json:"answer"`
}

// ChallengeResult is the reveal payload returned once an answer has been
// submitted for a challenge. The correct answer and reference are fixed,
// independent of what was submitted.
type ChallengeResult struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Reference     string `json:"reference"`
}

// ChallengeStatus pairs a challenge with its submission state for the
// quiz-progress listing. Answer and Reference are only populated after
// the challenge has been answered.
type ChallengeStatus struct {
	Index      int    `json:"index"`
	Question   string `json:"question"`
	Submitted  bool   `json:"submitted"`
	YourAnswer string `json:"your_answer,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Reference  string `json:"reference,omitempty"`
}
