// Package docerr defines the error taxonomy shared across the service.
// Handlers map these sentinels to HTTP status codes; everything else
// wraps them with %w so errors.Is keeps working across layers.
package docerr

import (
	"errors"
	"net/http"
)

var (
	// ErrUnsupportedFileType is returned for uploads that are neither
	// text/plain nor application/pdf.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyDocument is returned when extraction yields no text.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrFileRead is returned when the uploaded file cannot be read or parsed.
	ErrFileRead = errors.New("file read failed")

	// ErrInvalidInput is returned when a request violates an operation's
	// input contract before any model call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedModelOutput is returned when the model response cannot be
	// parsed into the declared output shape.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrAuthentication covers failed sign-in and invalid sessions.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthNotConfigured reports a missing identity-provider configuration,
	// kept distinct from ordinary authentication failures.
	ErrAuthNotConfigured = errors.New("identity provider not configured")

	// ErrProcessing reports a failed document-processing join: if either the
	// summary or the challenge batch fails, no partial document is produced.
	ErrProcessing = errors.New("document processing failed")

	// ErrNotFound is returned for unknown or foreign-owned records.
	ErrNotFound = errors.New("not found")
)

// Status maps a service error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrEmptyDocument), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileRead):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrMalformedModelOutput), errors.Is(err, ErrProcessing):
		return http.StatusBadGateway
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
