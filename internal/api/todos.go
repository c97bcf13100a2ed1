package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Makepad-fr/tada/internal/model"
)

func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "load todos", http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, d model.Draft) (*model.Todo, error) {
	var t model.Todo
	if err := c.do(ctx, "add todo", http.MethodPost, "/todos", d, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ToggleTodo flips completion on the server and returns its new state.
func (c *Client) ToggleTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var t model.Todo
	if err := c.do(ctx, "toggle todo", http.MethodPatch, fmt.Sprintf("/todos/%d/toggle", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, d model.Draft) (*model.Todo, error) {
	var t model.Todo
	if err := c.do(ctx, "update todo", http.MethodPut, fmt.Sprintf("/todos/%d", id), d, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, "delete todo", http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}
