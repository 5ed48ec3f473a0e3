// Package ingest extracts raw text from uploaded documents.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docubrain/backend/internal/docerr"
)

const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
)

// ExtractText reads the upload and returns its full text content.
// Only text/plain and application/pdf are accepted; the MIME check happens
// before any bytes are read. Extraction is idempotent for the same input.
func ExtractText(r io.Reader, mimeType string) (string, error) {
	switch normalizeMIME(mimeType) {
	case MIMEPlainText:
		return extractPlainText(r)
	case MIMEPDF:
		return extractPDF(r)
	default:
		return "", fmt.Errorf("%w: %s", docerr.ErrUnsupportedFileType, mimeType)
	}
}

// normalizeMIME strips parameters such as "; charset=utf-8" and lowercases
// the media type.
func normalizeMIME(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func extractPlainText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", docerr.ErrFileRead, err)
	}
	return checkNonEmpty(string(data))
}

// extractPDF walks every page in order, joins the text items within a page
// with single spaces and pages with blank lines, preserving paragraph-level
// separation between pages.
func extractPDF(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", docerr.ErrFileRead, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", docerr.ErrFileRead, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		var items []string
		for _, text := range page.Content().Text {
			if text.S != "" {
				items = append(items, text.S)
			}
		}
		pages = append(pages, strings.Join(items, " "))
	}

	return checkNonEmpty(strings.Join(pages, "\n\n"))
}

func checkNonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", docerr.ErrEmptyDocument
	}
	return text, nil
}
