// Package api is the typed client for the Accountabilidash REST API. It
// maps one method to each endpoint under /api/v1 and converts every failure
// into a classified *Error. The client carries no navigation or session
// logic; 401 handling belongs to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
)

// Client talks to one Accountabilidash API server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Token supplies the current bearer token, or "" when anonymous. It is
	// a function so the session store can rotate the token without the
	// client holding session state.
	Token func() string
}

func New(baseURL string, token func() string) *Client {
	return &Client{BaseURL: baseURL, Token: token}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

// do builds, sends, and decodes one request. A nil out skips decoding
// (204 responses). Every request gets a fresh X-Request-ID so client and
// server logs can be correlated.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	req, err := http.NewRequestWithContext(ctx, method, base+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Detail: "something went wrong", Err: err}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	var token model.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", req, &token)
	return token, err
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

func (c *Client) ListGoals(ctx context.Context, activeOnly bool) ([]model.Goal, error) {
	var goals []model.Goal
	path := "/goals?active_only=" + strconv.FormatBool(activeOnly)
	err := c.do(ctx, http.MethodGet, path, nil, &goals)
	return goals, err
}

func (c *Client) CreateGoal(ctx context.Context, req model.GoalCreate) (model.Goal, error) {
	var goal model.Goal
	err := c.do(ctx, http.MethodPost, "/goals", req, &goal)
	return goal, err
}

func (c *Client) GetGoal(ctx context.Context, id string) (model.Goal, error) {
	var goal model.Goal
	err := c.do(ctx, http.MethodGet, "/goals/"+url.PathEscape(id), nil, &goal)
	return goal, err
}

func (c *Client) UpdateGoal(ctx context.Context, id string, req model.GoalUpdate) (model.Goal, error) {
	var goal model.Goal
	err := c.do(ctx, http.MethodPatch, "/goals/"+url.PathEscape(id), req, &goal)
	return goal, err
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/goals/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Dashboard(ctx context.Context) ([]model.GoalWithProgress, error) {
	var goals []model.GoalWithProgress
	err := c.do(ctx, http.MethodGet, "/goals/dashboard", nil, &goals)
	return goals, err
}

func (c *Client) CheckIn(ctx context.Context, goalID string, req model.CheckInRequest) (model.GoalCompletion, error) {
	var completion model.GoalCompletion
	err := c.do(ctx, http.MethodPost, "/goals/"+url.PathEscape(goalID)+"/check-in", req, &completion)
	return completion, err
}

func (c *Client) ListCompletions(ctx context.Context, goalID string) ([]model.GoalCompletion, error) {
	var completions []model.GoalCompletion
	err := c.do(ctx, http.MethodGet, "/goals/"+url.PathEscape(goalID)+"/completions", nil, &completions)
	return completions, err
}

func (c *Client) Health(ctx context.Context) (model.HealthStatus, error) {
	var status model.HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, &status)
	return status, err
}
