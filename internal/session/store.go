// Package session owns the client's authentication lifecycle: the persisted
// bearer token and the in-memory session state machine built on top of it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

// State is the session lifecycle state.
type State string

const (
	// StateAnonymous means no usable token is held.
	StateAnonymous State = "anonymous"
	// StateHydrating means a persisted token exists and the current user is
	// being fetched to validate it.
	StateHydrating State = "hydrating"
	// StateAuthenticated means the token was accepted and the user is cached.
	StateAuthenticated State = "authenticated"
	// StateRejected means a previously authenticated session was torn down
	// because a request came back 401. Guards treat it like anonymous.
	StateRejected State = "rejected"
)

// ErrLoginAfterRegister marks the partial-failure outcome of registration:
// the account was created but the follow-up login did not succeed, so the
// session stays anonymous. Distinct from registration itself failing.
var ErrLoginAfterRegister = errors.New("account created but sign-in failed")

// Store is the session state machine. It owns the token file and the cached
// user, and is safe for concurrent use.
type Store struct {
	client *api.Client
	tokens *TokenStore
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	token    string
	user     *model.User
	hydrated bool
}

// NewStore loads any persisted token and places the store in hydrating or
// anonymous accordingly. The api client it returns a token source for must
// be the same client passed here.
func NewStore(client *api.Client, tokens *TokenStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{client: client, tokens: tokens, log: log}
	s.token = tokens.Load()
	if s.token != "" {
		s.state = StateHydrating
	} else {
		s.state = StateAnonymous
	}
	return s
}

// Token is the token source for the API client.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the cached user, or nil outside StateAuthenticated.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Hydrate validates a persisted token by fetching the current user. It runs
// at most once per Store lifetime; later calls return the settled state.
// If ctx is cancelled before the fetch resolves, the result is discarded
// and the store stays in hydrating so no state lands after teardown.
func (s *Store) Hydrate(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state != StateHydrating || s.hydrated {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	s.hydrated = true
	s.mu.Unlock()

	user, err := s.client.Me(ctx)

	if ctx.Err() != nil {
		return StateHydrating, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Debug("session hydration failed", zap.Error(err))
		s.token = ""
		s.user = nil
		s.state = StateAnonymous
		s.tokens.Clear()
		if api.ErrorKind(err) == api.KindNetwork {
			return s.state, err
		}
		return s.state, nil
	}
	s.user = &user
	s.state = StateAuthenticated
	return s.state, nil
}

// Login exchanges credentials for a token, persists it, and caches the
// current user. On any failure the session is left (or put back) anonymous.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.mu.Unlock()
	s.tokens.Save(resp.AccessToken)

	user, err := s.client.Me(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.state = StateAnonymous
		s.mu.Unlock()
		s.tokens.Clear()
		return fmt.Errorf("fetch current user: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.hydrated = true
	s.mu.Unlock()
	return nil
}

// Register creates the account and then signs in with the same credentials.
// A login failure after a successful registration is reported as
// ErrLoginAfterRegister; the account exists but the session is anonymous.
func (s *Store) Register(ctx context.Context, email, password string, fullName *string) error {
	_, err := s.client.Register(ctx, model.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return err
	}
	if err := s.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginAfterRegister, err)
	}
	return nil
}

// Logout clears the token and cached user. It never fails.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	s.tokens.Clear()
}

// HandleAuthRejected is the global interceptor reaction to any request that
// came back 401: drop the session. Navigation stays with the caller.
func (s *Store) HandleAuthRejected() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateRejected
	s.mu.Unlock()
	s.tokens.Clear()
}
