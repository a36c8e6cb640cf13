package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeAPI is an in-memory Accountabilidash server covering the endpoints
// the CLI exercises. One registered account at a time keeps it simple.
type fakeAPI struct {
	mu sync.Mutex

	email    string
	password string
	fullName *string
	token    string

	nextID      int
	goals       map[string]map[string]any
	order       []string
	completions map[string][]map[string]any

	lastCheckIn map[string]any
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		goals:       map[string]map[string]any{},
		completions: map[string][]map[string]any{},
	}
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", f.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", f.handleLogin)
	mux.HandleFunc("GET /api/v1/auth/me", f.handleMe)
	mux.HandleFunc("POST /api/v1/goals", f.auth(f.handleCreateGoal))
	mux.HandleFunc("GET /api/v1/goals", f.auth(f.handleListGoals))
	mux.HandleFunc("GET /api/v1/goals/dashboard", f.auth(f.handleDashboard))
	mux.HandleFunc("POST /api/v1/goals/{id}/check-in", f.auth(f.handleCheckIn))
	mux.HandleFunc("GET /api/v1/goals/{id}/completions", f.auth(f.handleCompletions))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"detail": msg})
}

func (f *fakeAPI) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := f.token != "" && r.Header.Get("Authorization") == "Bearer "+f.token
		f.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) userPayload() map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)
	return map[string]any{
		"id": "u1", "email": f.email, "full_name": f.fullName,
		"is_active": true, "created_at": now, "updated_at": now,
	}
}

func (f *fakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.email == req.Email && f.email != "" {
		detail(w, http.StatusConflict, "Email already registered")
		return
	}
	f.email = req.Email
	f.password = req.Password
	f.fullName = req.FullName
	writeJSON(w, http.StatusCreated, f.userPayload())
}

func (f *fakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Email != f.email || req.Password != f.password {
		detail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	f.token = fmt.Sprintf("tok-%d", time.Now().UnixNano())
	writeJSON(w, http.StatusOK, map[string]any{"access_token": f.token, "token_type": "bearer"})
}

func (f *fakeAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" || r.Header.Get("Authorization") != "Bearer "+f.token {
		detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, f.userPayload())
}

func (f *fakeAPI) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("g%d", f.nextID)
	now := time.Now().UTC().Format(time.RFC3339)
	goal := map[string]any{
		"id": id, "user_id": "u1",
		"title":       req["title"],
		"description": strOr(req["description"], ""),
		"goal_type":   strOr(req["goal_type"], "one_time"),
		"frequency":   req["frequency"],
		"target_count": func() float64 {
			if v, ok := req["target_count"].(float64); ok {
				return v
			}
			return 1
		}(),
		"value_type": strOr(req["value_type"], "none"),
		"value_unit": req["value_unit"],
		"start_date": strOr(req["start_date"], time.Now().UTC().Format("2006-01-02")),
		"end_date":   req["end_date"],
		"is_active":  true,
		"created_at": now, "updated_at": now,
	}
	f.goals[id] = goal
	f.order = append(f.order, id)
	writeJSON(w, http.StatusCreated, goal)
}

func strOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func (f *fakeAPI) handleListGoals(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []map[string]any{}
	for _, id := range f.order {
		list = append(list, f.goals[id])
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *fakeAPI) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []map[string]any{}
	for _, id := range f.order {
		goal := map[string]any{}
		for k, v := range f.goals[id] {
			goal[k] = v
		}
		count := len(f.completions[id])
		target := int(goal["target_count"].(float64))
		goal["period_completions"] = count
		goal["is_completed"] = count >= target
		list = append(list, goal)
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *fakeAPI) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[id]; !ok {
		detail(w, http.StatusNotFound, "Goal not found")
		return
	}
	f.lastCheckIn = req
	now := time.Now().UTC()
	completion := map[string]any{
		"id":           fmt.Sprintf("c%d", len(f.completions[id])+1),
		"goal_id":      id,
		"completed_at": now.Format(time.RFC3339),
		"period_start": now.Format("2006-01-02"),
		"value":        req["value"],
		"note":         req["note"],
		"created_at":   now.Format(time.RFC3339),
	}
	f.completions[id] = append(f.completions[id], completion)
	writeJSON(w, http.StatusCreated, completion)
}

func (f *fakeAPI) handleCompletions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.completions[id]
	if list == nil {
		list = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, list)
}

// goalIDByTitle looks up a created goal's id for follow-up commands.
func (f *fakeAPI) goalIDByTitle(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		if s, ok := f.goals[id]["title"].(string); ok && strings.EqualFold(s, title) {
			return id
		}
	}
	return ""
}
