package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/docubrain/backend/internal/models"
)

// fakeUserStore implements UserStore in memory.
type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, errors.New("duplicate email")
	}
	u := &models.User{ID: "u-" + username, Username: username, Email: email,
		Password: hashedPw, Provider: "password"}
	s.byEmail[email] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *fakeUserStore) UpsertFederatedUser(ctx context.Context, username, email, provider string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	u := &models.User{ID: "u-" + username, Username: username, Email: email, Provider: provider}
	s.byEmail[email] = u
	return u, nil
}

func TestRegisterValidation(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil, NewGoogleVerifier(""))

	cases := []string{
		`not json`,
		`{"username":"","email":"a@b.c","password":"pw"}`,
		`{"username":"jo","email":"","password":"pw"}`,
		`{"username":"jo","email":"a@b.c","password":""}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	store := newFakeUserStore()
	h := NewHandler(store, nil, NewGoogleVerifier(""))

	body := `{"username":"jo","email":"jo@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var user models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "jo@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	// The stored password is hashed, never the plaintext.
	stored := store.byEmail["jo@example.com"]
	if stored.Password == "secret" {
		t.Errorf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeUserStore()
	h := NewHandler(store, nil, NewGoogleVerifier(""))

	body := `{"username":"jo","email":"jo@example.com","password":"secret"}`
	first := httptest.NewRecorder()
	h.Register(first, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

	second := httptest.NewRecorder()
	h.Register(second, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", second.Code)
	}
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil, NewGoogleVerifier(""))

	body := `{"id_token":"some-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when provider unconfigured, got %d", rec.Code)
	}
}

func TestGoogleLoginMissingToken(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil, NewGoogleVerifier("http://example.invalid"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
