package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/docubrain/backend/internal/docerr"
	"github.com/docubrain/backend/internal/models"
)

const requestTimeout = 2 * time.Minute

// Client implements Gateway against an OpenAI-compatible chat-completions
// endpoint using JSON response mode.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL, apiKey, model string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

func (c *Client) Summarize(ctx context.Context, documentContent string) (string, error) {
	if blank(documentContent) {
		return "", fmt.Errorf("%w: document content is required", docerr.ErrInvalidInput)
	}

	raw, err := c.complete(ctx, fmt.Sprintf(summarizePrompt, documentContent))
	if err != nil {
		return "", err
	}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("%w: summarize: %v", docerr.ErrMalformedModelOutput, err)
	}
	if blank(out.Summary) {
		return "", fmt.Errorf("%w: summarize: empty summary", docerr.ErrMalformedModelOutput)
	}
	return out.Summary, nil
}

func (c *Client) GenerateChallenges(ctx context.Context, documentText string, numQuestions int) ([]models.Challenge, error) {
	if blank(documentText) {
		return nil, fmt.Errorf("%w: document text is required", docerr.ErrInvalidInput)
	}
	if numQuestions == 0 {
		numQuestions = DefaultNumQuestions
	}
	if numQuestions < 1 || numQuestions > MaxNumQuestions {
		return nil, fmt.Errorf("%w: numQuestions must be between 1 and %d, got %d",
			docerr.ErrInvalidInput, MaxNumQuestions, numQuestions)
	}

	raw, err := c.complete(ctx, fmt.Sprintf(challengesPrompt, numQuestions, documentText))
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions []models.Challenge `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: challenges: %v", docerr.ErrMalformedModelOutput, err)
	}
	if len(out.Questions) != numQuestions {
		return nil, fmt.Errorf("%w: challenges: requested %d questions, got %d",
			docerr.ErrMalformedModelOutput, numQuestions, len(out.Questions))
	}
	for i, q := range out.Questions {
		if blank(q.Question) || blank(q.Answer) || blank(q.Reference) {
			return nil, fmt.Errorf("%w: challenges: question %d has empty fields",
				docerr.ErrMalformedModelOutput, i)
		}
		// The reference is a direct quote by prompt contract only; models
		// paraphrase often enough that a hard rejection would be too strict.
		if !strings.Contains(documentText, strings.Trim(q.Reference, `"`)) {
			c.log.Warn().Int("question", i).Msg("challenge reference is not a verbatim quote")
		}
	}
	return out.Questions, nil
}

func (c *Client) AnswerQuestion(ctx context.Context, documentContent, question string) (string, string, error) {
	if blank(documentContent) {
		return "", "", fmt.Errorf("%w: document content is required", docerr.ErrInvalidInput)
	}
	if blank(question) {
		return "", "", fmt.Errorf("%w: question is required", docerr.ErrInvalidInput)
	}

	raw, err := c.complete(ctx, fmt.Sprintf(answerPrompt, documentContent, question))
	if err != nil {
		return "", "", err
	}

	var out struct {
		Answer        string `json:"answer"`
		Justification string `json:"justification"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", "", fmt.Errorf("%w: answer: %v", docerr.ErrMalformedModelOutput, err)
	}
	if blank(out.Answer) {
		return "", "", fmt.Errorf("%w: answer: empty answer", docerr.ErrMalformedModelOutput)
	}
	return out.Answer, out.Justification, nil
}

// complete sends a single-turn chat completion in JSON mode and returns the
// raw message content for the caller to parse against its output schema.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature":     0.2,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeAPIError(resp)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", docerr.ErrMalformedModelOutput, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", docerr.ErrMalformedModelOutput)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (c *Client) decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("llm api error: status %d type %s message %s",
			resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("llm api error: status %d body %s", resp.StatusCode, string(body))
}
