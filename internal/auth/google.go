package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docubrain/backend/internal/docerr"
)

// GoogleClaims are the identity fields taken from a verified ID token.
type GoogleClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleVerifier checks Google ID tokens against the tokeninfo endpoint.
// Verification stays on the provider's side; we only trust its answer.
type GoogleVerifier struct {
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleVerifier(tokenInfoURL string) *GoogleVerifier {
	return &GoogleVerifier{
		tokenInfoURL: strings.TrimRight(tokenInfoURL, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a tokeninfo endpoint is set. An unconfigured
// verifier is a deployment error, reported distinctly from bad credentials.
func (v *GoogleVerifier) Configured() bool {
	return v.tokenInfoURL != ""
}

// Verify validates the ID token and returns its identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	if !v.Configured() {
		return nil, docerr.ErrAuthNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.tokenInfoURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, fmt.Errorf("create tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo request: %v", docerr.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tokeninfo returned %d", docerr.ErrAuthentication, resp.StatusCode)
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: decode tokeninfo: %v", docerr.ErrAuthentication, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", docerr.ErrAuthentication)
	}
	if claims.Name == "" {
		claims.Name = claims.Email
	}
	return &claims, nil
}
