package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/docubrain/backend/internal/docerr"
)

// failingReader errors on every read so tests can prove content is never
// touched for rejected MIME types.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("reader must not be used")
}

func TestExtractTextPlainText(t *testing.T) {
	text, err := ExtractText(strings.NewReader("The sky is blue. Water boils at 100°C."), "text/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "sky is blue") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractTextMIMEParameters(t *testing.T) {
	if _, err := ExtractText(strings.NewReader("hello"), "text/plain; charset=utf-8"); err != nil {
		t.Fatalf("charset parameter should be accepted: %v", err)
	}
}

func TestExtractTextEmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n\t  \n"} {
		_, err := ExtractText(strings.NewReader(content), "text/plain")
		if !errors.Is(err, docerr.ErrEmptyDocument) {
			t.Errorf("content %q: expected ErrEmptyDocument, got %v", content, err)
		}
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	for _, mime := range []string{"image/png", "application/msword", "text/html", ""} {
		_, err := ExtractText(failingReader{}, mime)
		if !errors.Is(err, docerr.ErrUnsupportedFileType) {
			t.Errorf("mime %q: expected ErrUnsupportedFileType, got %v", mime, err)
		}
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	_, err := ExtractText(strings.NewReader("this is not a pdf"), "application/pdf")
	if !errors.Is(err, docerr.ErrFileRead) {
		t.Errorf("expected ErrFileRead, got %v", err)
	}
}

func TestExtractTextIdempotent(t *testing.T) {
	const content = "Same input, same output."
	first, err := ExtractText(strings.NewReader(content), "text/plain")
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	second, err := ExtractText(strings.NewReader(content), "text/plain")
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if first != second {
		t.Errorf("extraction not idempotent: %q vs %q", first, second)
	}
}
