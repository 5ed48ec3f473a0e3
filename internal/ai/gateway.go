// Package ai wraps the hosted LLM provider behind three schema-checked
// operations: Summarize, GenerateChallenges and AnswerQuestion. The gateway
// is stateless between calls; callers supply full document context every time.
package ai

import (
	"context"
	"strings"

	"github.com/docubrain/backend/internal/models"
)

// DefaultNumQuestions is used when a caller does not request a count.
const DefaultNumQuestions = 3

// MaxNumQuestions bounds a single challenge batch.
const MaxNumQuestions = 5

// Gateway is the contract boundary to the LLM provider. Implementations
// validate inputs before dispatch and parse responses against the declared
// output shape, so they can be swapped or faked in tests.
type Gateway interface {
	// Summarize returns a summary of the full document content.
	Summarize(ctx context.Context, documentContent string) (string, error)

	// GenerateChallenges returns exactly numQuestions comprehension
	// questions, each with an expected answer and a supporting quote.
	GenerateChallenges(ctx context.Context, documentText string, numQuestions int) ([]models.Challenge, error)

	// AnswerQuestion answers a free-form question against the document and
	// justifies the answer with reference to the document. When the document
	// does not contain the answer the model is instructed to say so; that
	// instruction is not programmatically verified.
	AnswerQuestion(ctx context.Context, documentContent, question string) (answer, justification string, err error)
}

const summarizePrompt = `You are an AI assistant that summarizes documents.

Summarize the following document concisely, capturing its key points.

Document Content: %s

Respond with a JSON object of the form {"summary": "..."} and nothing else.`

const challengesPrompt = `You are an AI assistant designed to generate challenge questions from a given document.

Generate %d logic-based or comprehension questions from the following document. Each question should test the user's understanding of the material.

For each question, provide an expected answer and a reference to the specific section of the document that supports the answer. The reference should be a direct quote from the document.

Document Text: %s

Output the questions in JSON format.
Ensure the output is valid JSON and can be parsed without errors.

Example Output Format:
{
  "questions": [
    {
      "question": "What is the main idea of the document?",
      "answer": "The main idea is that...",
      "reference": "The document states that..."
    }
  ]
}`

const answerPrompt = `You are an AI assistant that answers questions based on a provided document.

Document Content: %s

Question: %s

Answer the question based on the document content and provide a justification for your answer,
including a reference to the specific part of the document that supports your answer.
If the document doesn't contain the answer, state that the answer cannot be found in the document.

Respond with a JSON object of the form {"answer": "...", "justification": "..."} and nothing else.`

// blank reports whether s carries no visible content.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
