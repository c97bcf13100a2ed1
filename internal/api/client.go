// Package api is the HTTP client for the to-do backend. Authentication is a
// bearer token only; the client never relies on cookies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/apperr"
)

// TokenSource yields the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the backend's JSON endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokens == nil {
		c.tokens = TokenFunc(func() string { return "" })
	}
	return c
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody covers the error shapes the backend has used.
type errorBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	default:
		return b.Error
	}
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
// op names the operation in logs and network errors.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperr.Unexpected("encode "+op+" request", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Unexpected("build "+op+" request", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "op", op, "method", method, "path", path, "request_id", reqID, "err", err)
		return apperr.Network(op, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperr.Network(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("decode response", "op", op, "request_id", reqID, "err", err)
		return apperr.Unexpected("decode "+op+" response", err)
	}
	return nil
}

// statusError maps a non-2xx status to the error taxonomy.
func statusError(op string, status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.text()
	if msg == "" {
		msg = fmt.Sprintf("%s: %s", op, strings.ToLower(http.StatusText(status)))
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		text := eb.text()
		if text == "" && (op == "login" || op == "register") {
			text = "Invalid email or password"
		}
		e := apperr.Unauthorized(text)
		e.Status = status
		return e
	case http.StatusNotFound:
		return apperr.NotFound(msg)
	case http.StatusConflict:
		return apperr.Conflict(msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e := apperr.Validation("%s", msg)
		e.Status = status
		return e
	}
	return &apperr.AppError{Kind: apperr.KindUnexpected, Message: msg, Status: status,
		Cause: errors.New(http.StatusText(status))}
}
