package study

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docubrain/backend/internal/ai"
	"github.com/docubrain/backend/internal/conversation"
	"github.com/docubrain/backend/internal/docerr"
	"github.com/docubrain/backend/internal/ingest"
	"github.com/docubrain/backend/internal/models"
	"github.com/docubrain/backend/internal/quiz"
)

const minQuestionLength = 5

// DocumentStore defines the interface for processed-document persistence.
type DocumentStore interface {
	Insert(ctx context.Context, doc *models.ProcessedDocument) (string, error)
	ListByUser(ctx context.Context, userID string) ([]models.DocumentSummary, error)
	GetByID(ctx context.Context, userID, id string) (*models.ProcessedDocument, error)
	Delete(ctx context.Context, userID, id string) error
}

// FileStore defines the interface for original-upload storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds the document, conversation and quiz HTTP handlers.
type Handler struct {
	docs      DocumentStore
	files     FileStore
	gateway   ai.Gateway
	processor *Processor
	conv      *conversation.Manager
	quiz      *quiz.Manager
	maxUpload int64
	log       zerolog.Logger
}

func NewHandler(docs DocumentStore, files FileStore, gateway ai.Gateway,
	conv *conversation.Manager, qz *quiz.Manager, maxUpload int64, log zerolog.Logger) *Handler {
	return &Handler{
		docs:      docs,
		files:     files,
		gateway:   gateway,
		processor: NewProcessor(gateway),
		conv:      conv,
		quiz:      qz,
		maxUpload: maxUpload,
		log:       log,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to its HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, docerr.Status(err), map[string]string{"error": err.Error()})
}

// Upload ingests a document, runs the processing pipeline and stores the
// result together with the original file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing file field: %v", docerr.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	text, err := ingest.ExtractText(file, contentType)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.processor.Process(r.Context(), header.Filename, text)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("document processing failed")
		writeError(w, err)
		return
	}
	doc.UserID = userID
	doc.ContentType = contentType

	// The original file is kept for download; losing it is not worth
	// failing an otherwise processed document over.
	if _, err := file.Seek(0, io.SeekStart); err == nil {
		raw, err := io.ReadAll(file)
		if err == nil {
			key := fmt.Sprintf("%s/%s", userID, uuid.New().String())
			if err := h.files.Upload(r.Context(), key, raw, contentType); err != nil {
				h.log.Warn().Err(err).Msg("original file upload failed")
			} else {
				doc.FileObjectKey = key
			}
		}
	}

	docID, err := h.docs.Insert(r.Context(), doc)
	if err != nil {
		h.log.Error().Err(err).Msg("document insert failed")
		writeError(w, errors.New("failed to save document"))
		return
	}

	saved, err := h.docs.GetByID(r.Context(), userID, docID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.log.Info().Str("doc_id", docID).Str("file", header.Filename).Msg("document processed")
	writeJSON(w, http.StatusCreated, saved)
}

// List returns the history projection for the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docs, err := h.docs.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, errors.New("database error"))
		return
	}
	if docs == nil {
		docs = []models.DocumentSummary{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get returns a single processed document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	doc, err := h.docs.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Delete removes a document, its stored file and its transient state.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docID := chi.URLParam(r, "id")

	doc, err := h.docs.GetByID(r.Context(), userID, docID)
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}

	if doc.FileObjectKey != "" {
		if err := h.files.Remove(r.Context(), doc.FileObjectKey); err != nil {
			h.log.Warn().Err(err).Str("key", doc.FileObjectKey).Msg("file removal failed")
		}
	}
	if err := h.docs.Delete(r.Context(), userID, docID); err != nil {
		writeError(w, errors.New("delete failed"))
		return
	}
	h.conv.Drop(userID, docID)
	h.quiz.Drop(userID, docID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// DownloadFile streams the original upload.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	doc, err := h.docs.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil || doc.FileObjectKey == "" {
		writeError(w, docerr.ErrNotFound)
		return
	}

	data, contentType, err := h.files.Download(r.Context(), doc.FileObjectKey)
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Write(data)
}

// Ask submits a question against the document. The turn is inserted
// optimistically and rolled back if the model call fails.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docID := chi.URLParam(r, "id")

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", docerr.ErrInvalidInput))
		return
	}
	question := strings.TrimSpace(req.Question)
	if len(question) < minQuestionLength {
		writeError(w, fmt.Errorf("%w: question must be at least %d characters",
			docerr.ErrInvalidInput, minQuestionLength))
		return
	}

	doc, err := h.docs.GetByID(r.Context(), userID, docID)
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}

	turn := h.conv.Submit(userID, docID, question)
	answer, justification, err := h.gateway.AnswerQuestion(r.Context(), doc.Content, question)
	if err != nil {
		if rbErr := h.conv.Rollback(userID, docID, turn.ID); rbErr != nil {
			h.log.Error().Err(rbErr).Str("turn", turn.ID).Msg("rollback failed")
		}
		h.log.Error().Err(err).Str("doc_id", docID).Msg("answer question failed")
		writeError(w, err)
		return
	}

	resolved, err := h.conv.Resolve(userID, docID, turn.ID, answer, justification)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

// Conversation returns the turn history in insertion order.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docID := chi.URLParam(r, "id")

	if _, err := h.docs.GetByID(r.Context(), userID, docID); err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.conv.Turns(userID, docID))
}

// SubmitChallenge records a quiz answer and reveals the challenge.
func (h *Handler) SubmitChallenge(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docID := chi.URLParam(r, "id")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid challenge index", docerr.ErrInvalidInput))
		return
	}

	var req models.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", docerr.ErrInvalidInput))
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		writeError(w, fmt.Errorf("%w: answer is required", docerr.ErrInvalidInput))
		return
	}

	doc, err := h.docs.GetByID(r.Context(), userID, docID)
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}

	result, err := h.quiz.Submit(userID, docID, doc.Challenges, index, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Challenges returns the quiz with per-challenge submission state.
func (h *Handler) Challenges(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	docID := chi.URLParam(r, "id")

	doc, err := h.docs.GetByID(r.Context(), userID, docID)
	if err != nil {
		writeError(w, docerr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.quiz.Status(userID, docID, doc.Challenges))
}
