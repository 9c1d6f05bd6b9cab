// Package fakeapi serves an in-memory imitation of the Codemagic build API.
// Builds advance one stage every time their details are fetched, so a
// monitor pointed at the fake sees a build progress to completion.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Stage sequences for seeded builds.
var (
	StagesSuccess  = []string{"queued", "preparing", "building", "publishing", "finished"}
	StagesFailure  = []string{"queued", "building", "failed"}
	StagesCanceled = []string{"queued", "building", "canceled"}
)

// Artifact is a file attached to a finished build.
type Artifact struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// BuildSpec describes a build to add.
type BuildSpec struct {
	Workflow  string
	Branch    string
	Message   string
	Stages    []string
	Artifacts []Artifact
}

type fakeBuild struct {
	id        string
	spec      BuildSpec
	stage     int
	startedAt time.Time
	endedAt   time.Time
}

// Server is the fake API.
type Server struct {
	mu      sync.Mutex
	token   string
	appID   string
	builds  []*fakeBuild // newest first
	hits    map[string]int
	now     func() time.Time
	limiter *rateLimiter
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit rejects clients with 429 once they exceed max requests
// within window.
func WithRateLimit(max int, window time.Duration) Option {
	return func(s *Server) {
		if max > 0 && window > 0 {
			s.limiter = newRateLimiter(max, window, time.Now)
		}
	}
}

// New creates a Server that accepts token and serves builds for appID.
func New(token, appID string, opts ...Option) *Server {
	s := &Server{
		token: token,
		appID: appID,
		hits:  make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.limiter != nil {
		r.Use(s.limiter.middleware)
	}
	r.Use(s.authenticate)
	r.Get("/builds", s.handleListBuilds)
	r.Post("/builds", s.handleStartBuild)
	r.Get("/builds/{id}", s.handleGetBuild)
	s.router = r

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AddBuild adds a build at the head of the list and returns its ID. Stages
// default to StagesSuccess.
func (s *Server) AddBuild(spec BuildSpec) string {
	if len(spec.Stages) == 0 {
		spec.Stages = StagesSuccess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := &fakeBuild{
		id:   uuid.NewString(),
		spec: spec,
	}
	s.builds = append([]*fakeBuild{b}, s.builds...)
	return b.id
}

// Advance moves the build one stage forward. Terminal builds stay put.
func (s *Server) Advance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return false
	}
	s.advance(b)
	return true
}

// Hits returns how many times the details of a build were fetched.
func (s *Server) Hits(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[id]
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("x-auth-token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" || token != s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("appId") != s.appID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return
	}

	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 0 || limit > len(s.builds) {
		limit = len(s.builds)
	}
	out := make([]map[string]any, 0, limit)
	for _, b := range s.builds[:limit] {
		out = append(out, s.encode(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"builds": out})
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "build not found"})
		return
	}

	s.hits[id]++
	writeJSON(w, http.StatusOK, map[string]any{"build": s.encode(b)})
	s.advance(b)
}

type startRequest struct {
	AppID      string `json:"appId"`
	WorkflowID string `json:"workflowId"`
	Branch     string `json:"branch"`
}

func (s *Server) handleStartBuild(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.AppID != s.appID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return
	}
	if req.WorkflowID == "" || req.Branch == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workflowId and branch are required"})
		return
	}

	id := s.AddBuild(BuildSpec{Workflow: req.WorkflowID, Branch: req.Branch})
	writeJSON(w, http.StatusOK, map[string]string{"buildId": id})
}

func (s *Server) find(id string) *fakeBuild {
	for _, b := range s.builds {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (s *Server) advance(b *fakeBuild) {
	if b.stage >= len(b.spec.Stages)-1 {
		return
	}
	b.stage++
	now := s.now()
	if b.startedAt.IsZero() {
		b.startedAt = now
	}
	if b.stage == len(b.spec.Stages)-1 {
		b.endedAt = now
	}
}

func (s *Server) encode(b *fakeBuild) map[string]any {
	status := b.spec.Stages[b.stage]
	out := map[string]any{
		"_id":      b.id,
		"status":   status,
		"workflow": map[string]string{"name": b.spec.Workflow},
		"branch":   b.spec.Branch,
	}
	if b.spec.Message != "" {
		out["message"] = b.spec.Message
	}
	if !b.startedAt.IsZero() {
		out["startedAt"] = b.startedAt.UTC().Format(time.RFC3339)
		end := s.now()
		if !b.endedAt.IsZero() {
			end = b.endedAt
			out["finishedAt"] = b.endedAt.UTC().Format(time.RFC3339)
		}
		out["duration"] = int(end.Sub(b.startedAt).Seconds())
	}
	if status == "finished" && len(b.spec.Artifacts) > 0 {
		out["artifacts"] = b.spec.Artifacts
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
