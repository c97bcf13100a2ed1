// Package apitest runs an in-memory to-do backend on httptest for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/tada/internal/model"
)

// Token is the bearer token the fake issues and accepts.
const Token = "test-token"

// Server is a fake backend. Zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	todos    []model.Todo
	nextID   int64
	users    map[string]user
	forced   map[string]int
	hits     map[string]int
	lastAuth string
	now      func() time.Time
}

type user struct {
	Name, Email, Password string
}

// New starts a fake with one registered user (ada@example.com / Passw0rd!).
func New() *Server {
	s := &Server{
		nextID: 1,
		users:  map[string]user{"ada@example.com": {Name: "Ada", Email: "ada@example.com", Password: "Passw0rd!"}},
		forced: map[string]int{},
		hits:   map[string]int{},
		now:    time.Now,
	}
	r := mux.NewRouter()
	r.HandleFunc("/login", s.route("login", s.login)).Methods(http.MethodPost)
	r.HandleFunc("/register", s.route("register", s.register)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.route("logout", s.authed(s.logout))).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify", s.route("verify", s.authed(s.verify))).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.route("list", s.authed(s.list))).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.route("create", s.authed(s.create))).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}/toggle", s.route("toggle", s.authed(s.toggle))).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{id:[0-9]+}", s.route("update", s.authed(s.update))).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id:[0-9]+}", s.route("delete", s.authed(s.remove))).Methods(http.MethodDelete)
	s.Server = httptest.NewServer(r)
	return s
}

// Seed replaces the stored todos; ids continue after the highest one.
func (s *Server) Seed(todos ...model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]model.Todo(nil), todos...)
	for _, t := range todos {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
}

// Todos returns the server-side state.
func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// Force makes every request to route answer with status until cleared
// with status 0. Routes: login register logout verify list create toggle
// update delete.
func (s *Server) Force(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, route)
		return
	}
	s.forced[route] = status
}

// Hits counts requests that reached route, forced ones included.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits counts every request.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// LastAuthorization is the Authorization header of the latest request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[name]++
		s.lastAuth = r.Header.Get("Authorization")
		status, forced := s.forced[name]
		s.mu.Unlock()
		if forced {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		h(w, r)
	}
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
			return
		}
		h(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON data"})
		return
	}
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok || u.Password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": Token, "token_type": "bearer", "expires_in": 3600})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON data"})
		return
	}
	if in.Password != in.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Passwords do not match"})
		return
	}
	key := strings.ToLower(in.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already exists"})
		return
	}
	s.users[key] = user{Name: in.Name, Email: in.Email, Password: in.Password}
	writeJSON(w, http.StatusCreated, map[string]any{"access_token": Token, "token_type": "bearer"})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": "Ada", "email": "ada@example.com"})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Todos())
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || strings.TrimSpace(d.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}
	s.mu.Lock()
	t := model.Todo{
		ID:          s.nextID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Deadline:    d.Deadline,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	s.nextID++
	s.todos = append([]model.Todo{t}, s.todos...)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	s.withTodo(w, r, func(t *model.Todo) {
		t.Completed = !t.Completed
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || strings.TrimSpace(d.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}
	s.withTodo(w, r, func(t *model.Todo) {
		t.Title = d.Title
		t.Description = d.Description
		t.Priority = d.Priority
		t.Deadline = d.Deadline
	})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Todo not found"})
}

func (s *Server) withTodo(w http.ResponseWriter, r *http.Request, fn func(t *model.Todo)) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			fn(&s.todos[i])
			t := s.todos[i]
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Todo not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
