package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

const validToken = "tok-valid"

// fakeAuthServer implements just enough of the auth endpoints: one account
// (jane@example.com / hunter22) whose login yields validToken.
func fakeAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "jane@example.com" || req.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Incorrect email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token": "` + validToken + `", "token_type": "bearer"}`))
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Could not validate credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "u1", "email": "jane@example.com", "full_name": "Jane Doe",
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "jane@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail": "Email already registered"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "u2", "email": "` + req.Email + `", "full_name": null,
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestStore(t *testing.T, baseURL string, storedToken string) (*Store, *TokenStore, string) {
	t.Helper()
	dir := t.TempDir()
	tokens := NewTokenStore(dir, nil)
	if storedToken != "" {
		tokens.Save(storedToken)
	}
	client := api.New(baseURL, nil)
	store := NewStore(client, tokens, nil)
	client.Token = store.Token
	return store, tokens, dir
}

func TestInitialStateFollowsStoredToken(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)

	store, _, _ := newTestStore(t, ts.URL, "")
	if store.State() != StateAnonymous {
		t.Fatalf("no token should start anonymous, got %s", store.State())
	}

	store, _, _ = newTestStore(t, ts.URL, validToken)
	if store.State() != StateHydrating {
		t.Fatalf("stored token should start hydrating, got %s", store.State())
	}
}

func TestHydrateValidToken(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, _, _ := newTestStore(t, ts.URL, validToken)

	state, err := store.Hydrate(context.Background())
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if state != StateAuthenticated || store.State() != StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", state)
	}
	user := store.User()
	if user == nil || user.Email != "jane@example.com" {
		t.Fatalf("expected cached user, got %+v", user)
	}
}

func TestHydrateInvalidTokenClearsIt(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, dir := newTestStore(t, ts.URL, "tok-expired")

	state, err := store.Hydrate(context.Background())
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if state != StateAnonymous {
		t.Fatalf("expected anonymous after rejected token, got %s", state)
	}
	if tokens.Load() != "" {
		t.Fatal("rejected token must be removed from storage")
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Fatal("token file should be gone")
	}
}

func TestHydrateRunsOncePerLifetime(t *testing.T) {
	t.Parallel()

	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id": "u1", "email": "jane@example.com", "full_name": null,
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store, _, _ := newTestStore(t, ts.URL, validToken)
	for i := 0; i < 3; i++ {
		if _, err := store.Hydrate(context.Background()); err != nil {
			t.Fatalf("hydrate %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single hydration fetch, got %d", calls)
	}
}

func TestHydrateCancelledDiscardsResult(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, validToken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Hydrate(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if store.State() != StateHydrating {
		t.Fatalf("cancelled hydration must not mutate state, got %s", store.State())
	}
	if store.User() != nil {
		t.Fatal("cancelled hydration must not cache a user")
	}
	if tokens.Load() != validToken {
		t.Fatal("cancelled hydration must not touch the stored token")
	}
}

func TestLoginCachesUserAndPersistsToken(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, "")

	if err := store.Login(context.Background(), "jane@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if store.State() != StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", store.State())
	}
	user := store.User()
	if user == nil || user.Email != "jane@example.com" || user.DisplayName() != "Jane Doe" {
		t.Fatalf("cached user must match /auth/me, got %+v", user)
	}
	if tokens.Load() != validToken {
		t.Fatalf("token not persisted, got %q", tokens.Load())
	}
}

func TestLoginRejectedLeavesAnonymous(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, "")

	err := store.Login(context.Background(), "jane@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !api.IsAuthRejected(err) {
		t.Fatalf("expected auth-rejected error, got %v", err)
	}
	if store.State() != StateAnonymous {
		t.Fatalf("failed login must stay anonymous, got %s", store.State())
	}
	if tokens.Load() != "" {
		t.Fatal("failed login must not persist a token")
	}
}

func TestRegisterDuplicateEmailCreatesNoSession(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, "")

	err := store.Register(context.Background(), "jane@example.com", "hunter22", nil)
	if !api.IsValidation(err) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
	if errors.Is(err, ErrLoginAfterRegister) {
		t.Fatal("duplicate email is a registration failure, not a login-after-register failure")
	}
	if store.State() != StateAnonymous || tokens.Load() != "" {
		t.Fatal("failed registration must not create a session")
	}
}

func TestRegisterThenAutoLogin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "u2", "email": "new@example.com", "full_name": null,
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token": "tok-new", "token_type": "bearer"}`))
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "u2", "email": "new@example.com", "full_name": null,
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store, tokens, _ := newTestStore(t, ts.URL, "")
	if err := store.Register(context.Background(), "new@example.com", "hunter22", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if store.State() != StateAuthenticated {
		t.Fatalf("expected authenticated after register, got %s", store.State())
	}
	if tokens.Load() != "tok-new" {
		t.Fatal("token from auto-login must be persisted")
	}
}

func TestRegisterPartialFailureIsDistinct(t *testing.T) {
	t.Parallel()

	// Registration succeeds, but the follow-up login is refused: the saga's
	// partial-failure state (account created, session anonymous).
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "u2", "email": "new@example.com", "full_name": null,
			"is_active": true, "created_at": "2025-06-01T10:00:00Z", "updated_at": "2025-06-01T10:00:00Z"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Incorrect email or password"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store, _, _ := newTestStore(t, ts.URL, "")
	err := store.Register(context.Background(), "new@example.com", "hunter22", nil)
	if !errors.Is(err, ErrLoginAfterRegister) {
		t.Fatalf("expected ErrLoginAfterRegister, got %v", err)
	}
	if store.State() != StateAnonymous {
		t.Fatalf("partial failure leaves the session anonymous, got %s", store.State())
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, "")

	if err := store.Login(context.Background(), "jane@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.Logout()
	if store.State() != StateAnonymous || store.User() != nil {
		t.Fatal("logout must drop state and cached user")
	}
	if tokens.Load() != "" {
		t.Fatal("logout must remove the stored token")
	}
	// Idempotent.
	store.Logout()
	if store.State() != StateAnonymous {
		t.Fatal("repeated logout must stay anonymous")
	}
}

func TestHandleAuthRejectedTearsDownSession(t *testing.T) {
	t.Parallel()
	ts := fakeAuthServer(t)
	store, tokens, _ := newTestStore(t, ts.URL, "")

	if err := store.Login(context.Background(), "jane@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.HandleAuthRejected()
	if store.State() != StateRejected {
		t.Fatalf("expected rejected state, got %s", store.State())
	}
	if store.User() != nil || store.Token() != "" {
		t.Fatal("teardown must drop user and token")
	}
	if tokens.Load() != "" {
		t.Fatal("teardown must remove the stored token")
	}

	// A fresh login recovers the session.
	if err := store.Login(context.Background(), "jane@example.com", "hunter22"); err != nil {
		t.Fatalf("login after teardown: %v", err)
	}
	if store.State() != StateAuthenticated {
		t.Fatalf("expected authenticated after re-login, got %s", store.State())
	}
}
