// Package store keeps the client's snapshot of the todo collection in step
// with the backend. The server is authoritative: local records are only
// ever replaced with what a successful call returned.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/model"
)

// Backend is the slice of the API client the store needs.
type Backend interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, d model.Draft) (*model.Todo, error)
	ToggleTodo(ctx context.Context, id int64) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id int64, d model.Draft) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
}

// Confirmer asks the user whether t may be deleted.
type Confirmer func(t model.Todo) bool

// Counts are the numbers shown on the filter tabs.
type Counts struct {
	All, Completed, Pending int
}

// Store is safe for concurrent use; tea commands call it off the UI loop.
type Store struct {
	backend Backend
	logger  *log.Logger

	// OnUnauthorized runs after any 401, before the error is returned.
	OnUnauthorized func()

	mu       sync.Mutex
	todos    []model.Todo
	inflight map[int64]bool
	loaded   bool
}

func New(backend Backend, logger *log.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   logger,
		inflight: map[int64]bool{},
	}
}

// Snapshot returns a copy of the current collection in display order.
func (s *Store) Snapshot() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// Loaded reports whether a load has succeeded yet.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Get returns the local copy of id.
func (s *Store) Get(id int64) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.todos, id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

// Pending reports whether id has a mutating request in flight.
func (s *Store) Pending(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[id]
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{All: len(s.todos)}
	for _, t := range s.todos {
		if t.Completed {
			c.Completed++
		}
	}
	c.Pending = c.All - c.Completed
	return c
}

// Load replaces the snapshot wholesale with the server's list.
func (s *Store) Load(ctx context.Context) error {
	todos, err := s.backend.ListTodos(ctx)
	if err != nil {
		return s.fail("load", err)
	}
	s.mu.Lock()
	s.todos = append([]model.Todo(nil), todos...)
	s.loaded = true
	s.mu.Unlock()
	s.logger.Debug("loaded todos", "count", len(todos))
	return nil
}

// Add creates a todo and puts the server's record first. An empty title
// is rejected before any request is made.
func (s *Store) Add(ctx context.Context, d model.Draft) (model.Todo, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return model.Todo{}, err
	}
	created, err := s.backend.CreateTodo(ctx, d)
	if err != nil {
		return model.Todo{}, s.fail("add", err)
	}
	s.mu.Lock()
	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, *created)
	s.todos = append(next, s.todos...)
	s.mu.Unlock()
	return *created, nil
}

// Toggle asks the server to flip completion and stores its answer.
func (s *Store) Toggle(ctx context.Context, id int64) (model.Todo, error) {
	if err := s.begin(id); err != nil {
		return model.Todo{}, err
	}
	defer s.end(id)

	updated, err := s.backend.ToggleTodo(ctx, id)
	if err != nil {
		return model.Todo{}, s.fail("toggle", err)
	}
	s.replace(*updated)
	return *updated, nil
}

// Update sends the full draft and stores the server's record.
func (s *Store) Update(ctx context.Context, id int64, d model.Draft) (model.Todo, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return model.Todo{}, err
	}
	if err := s.begin(id); err != nil {
		return model.Todo{}, err
	}
	defer s.end(id)

	updated, err := s.backend.UpdateTodo(ctx, id, d)
	if err != nil {
		return model.Todo{}, s.fail("update", err)
	}
	s.replace(*updated)
	return *updated, nil
}

// Remove deletes id after confirm approves it. A declined confirmation
// returns a cancelled error and sends nothing.
func (s *Store) Remove(ctx context.Context, id int64, confirm Confirmer) error {
	t, ok := s.Get(id)
	if !ok {
		return apperr.NotFound(fmt.Sprintf("todo %d not found", id))
	}
	if confirm == nil || !confirm(t) {
		return apperr.Cancelled("delete cancelled")
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	if err := s.backend.DeleteTodo(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.mu.Lock()
	next := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.todos = next
	s.mu.Unlock()
	return nil
}

// Reset forgets the snapshot, e.g. after logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.todos = nil
	s.loaded = false
	s.mu.Unlock()
}

// replace swaps in a new slice with rec at its old position. A record the
// snapshot no longer holds (e.g. reloaded meanwhile) is dropped.
func (s *Store) replace(rec model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.todos, rec.ID)
	if i < 0 {
		return
	}
	next := append([]model.Todo(nil), s.todos...)
	next[i] = rec
	s.todos = next
}

func (s *Store) begin(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[id] {
		return apperr.Busy(id)
	}
	s.inflight[id] = true
	return nil
}

func (s *Store) end(id int64) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// fail logs err and fires the unauthorized hook when it applies.
func (s *Store) fail(op string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthorized:
		s.logger.Warn("unauthorized", "op", op)
		if s.OnUnauthorized != nil {
			s.OnUnauthorized()
		}
	case apperr.KindNetwork, apperr.KindUnexpected:
		s.logger.Error(op+" failed", "err", err)
	default:
		s.logger.Info(op+" rejected", "err", err)
	}
	return err
}

func indexOf(todos []model.Todo, id int64) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
