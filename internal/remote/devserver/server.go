// Package devserver is an in-memory implementation of the remote task service
// REST API. It backs the serve command and the client tests.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/pkg/kv"
)

const defaultLimit = 20

// Options configures a Server.
type Options struct {
	// Secret enables HS256 verification of bearer tokens. When empty any
	// token is accepted and its sub claim (or the raw token) names the user.
	Secret string
	Logger zerolog.Logger
	// Now and NewID are overridable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

type taskKey struct {
	user string
	id   string
}

// Server serves /todos for any number of users, each seeing only their own
// tasks.
type Server struct {
	tasks *kv.Store[taskKey, task.Task]
	auth  *authenticator
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
	mux   *http.ServeMux
}

// New builds a Server.
func New(opts Options) *Server {
	s := &Server{
		tasks: kv.New[taskKey, task.Task](),
		auth:  newAuthenticator(opts.Secret),
		log:   opts.Logger,
		now:   opts.Now,
		newID: opts.NewID,
		mux:   http.NewServeMux(),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	s.mux.HandleFunc("GET /todos", s.handleList)
	s.mux.HandleFunc("POST /todos", s.handleCreate)
	s.mux.HandleFunc("PUT /todos/{taskId}", s.handleUpdate)
	s.mux.HandleFunc("DELETE /todos/{taskId}", s.handleDelete)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	s.log.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", r.Header.Get("X-Request-Id")).
		Int("status", rec.status).
		Dur("elapsed", s.now().Sub(start)).
		Msg("request")
}

// Seed stores tasks for user as-is, for fixtures.
func (s *Server) Seed(user string, tasks ...task.Task) {
	for _, t := range tasks {
		s.tasks.Set(taskKey{user: user, id: t.ID}, t)
	}
}

// Tasks returns every task owned by user, newest first.
func (s *Server) Tasks(user string) []task.Task {
	items := s.userTasks(user)
	sortByCreated(items)
	return items
}

func (s *Server) userTasks(user string) []task.Task {
	return s.tasks.Filter(func(k taskKey) bool { return k.user == user })
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authorize(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items := s.userTasks(user)
	if q.Get("sortBy") == "" || q.Get("sortBy") == "dueDate" {
		sortByDue(items)
	} else {
		sortByCreated(items)
	}

	// the limit applies before the status filter, as the query does upstream
	if len(items) > limit {
		items = items[:limit]
	}

	if status := task.Status(q.Get("status")); status != "" {
		filtered := items[:0]
		for _, t := range items {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		items = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

type createBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authorize(w, r)
	if !ok {
		return
	}

	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	for _, f := range []struct{ name, value string }{
		{"title", body.Title},
		{"dueDate", body.DueDate},
		{"priority", body.Priority},
	} {
		if f.value == "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+f.name)
			return
		}
	}

	if !task.Priority(body.Priority).IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid priority. Must be one of: HIGH, MEDIUM, LOW")
		return
	}

	due, err := task.ParseDue(body.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dueDate format")
		return
	}

	now := s.now().UTC()
	t := task.Task{
		ID:          s.newID(),
		Title:       body.Title,
		Description: body.Description,
		DueDate:     due.UTC(),
		Priority:    task.Priority(body.Priority),
		Status:      task.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks.Set(taskKey{user: user, id: t.ID}, t)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Todo created successfully",
		"todo":    t,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authorize(w, r)
	if !ok {
		return
	}

	key := taskKey{user: user, id: r.PathValue("taskId")}
	if _, found := s.tasks.Get(key); !found {
		writeTaskNotFound(w, key.id)
		return
	}

	var patch task.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if patch.Priority != nil && !patch.Priority.IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid priority. Must be one of: HIGH, MEDIUM, LOW")
		return
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid status. Must be one of: PENDING, COMPLETED")
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	updated, found := s.tasks.Update(key, func(t task.Task) task.Task {
		t = patch.Apply(t)
		t.UpdatedAt = s.now().UTC()
		return t
	})
	if !found {
		writeTaskNotFound(w, key.id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    updated,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authorize(w, r)
	if !ok {
		return
	}

	id := r.PathValue("taskId")
	if !s.tasks.Delete(taskKey{user: user, id: id}) {
		writeTaskNotFound(w, id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task deleted successfully",
		"taskId":  id,
	})
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := s.auth.userID(r.Header.Get("Authorization"))
	if err != nil {
		s.log.Debug().Err(err).Msg("rejected request")
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return user, true
}

func sortByDue(items []task.Task) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].Priority < items[j].Priority
		}
		return items[i].DueDate.Before(items[j].DueDate)
	})
}

func sortByCreated(items []task.Task) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func writeTaskNotFound(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":  "Task not found",
		"taskId": id,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var errMissingBearer = errors.New("missing bearer token")

func bearerToken(header string) (string, error) {
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(tok), nil
}
