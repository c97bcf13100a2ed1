package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Makepad-fr/tada/internal/apperr"
)

// Credentials is the login request body.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Registration is the register request body.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds, 0 when unknown

	// Legacy fields of the session-cookie contract; only used to detect
	// a 200 response that still reports failure.
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// User is the identity behind a token.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	return c.issueToken(ctx, "login", "/login", creds)
}

func (c *Client) Register(ctx context.Context, reg Registration) (*TokenResponse, error) {
	return c.issueToken(ctx, "register", "/register", reg)
}

func (c *Client) issueToken(ctx context.Context, op, path string, body any) (*TokenResponse, error) {
	var tr TokenResponse
	if err := c.do(ctx, op, http.MethodPost, path, body, &tr); err != nil {
		return nil, err
	}
	if tr.Success != nil && !*tr.Success {
		msg := tr.Message
		if msg == "" {
			msg = op + " failed"
		}
		return nil, apperr.Validation("%s", msg)
	}
	tr.AccessToken = strings.TrimSpace(tr.AccessToken)
	if tr.AccessToken == "" {
		return nil, apperr.Unexpected(op+" response carried no access token", nil)
	}
	return &tr, nil
}

// Verify returns the user behind the current token.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, "verify", http.MethodGet, "/auth/verify", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout tells the backend to drop the token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}
