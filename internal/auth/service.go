package auth

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/apperr"
)

// Backend is the slice of the API client the auth flow needs.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (*api.TokenResponse, error)
	Register(ctx context.Context, reg api.Registration) (*api.TokenResponse, error)
	Verify(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
}

// Service validates credentials, calls the backend and keeps the session.
type Service struct {
	backend Backend
	store   Store
	logger  *log.Logger
	now     func() time.Time
}

func NewService(backend Backend, store Store, logger *log.Logger) *Service {
	return &Service{backend: backend, store: store, logger: logger, now: time.Now}
}

// Current returns the stored session, nil when logged out.
func (s *Service) Current() (*Session, error) {
	sess, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		s.logger.Info("stored session expired", "expires_at", sess.ExpiresAt)
		_ = s.store.Clear()
		return nil, nil
	}
	return sess, nil
}

// Login validates the form, exchanges credentials for a token and stores
// it. Validation failures never reach the backend.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}
	tr, err := s.backend.Login(ctx, api.Credentials{
		Email:      strings.TrimSpace(email),
		Password:   password,
		RememberMe: remember,
	})
	if err != nil {
		s.logger.Warn("login failed", "email", email, "kind", apperr.KindOf(err))
		return nil, err
	}
	return s.save(tr, remember)
}

// Register validates the form, creates the account and stores the token.
// New accounts are remembered.
func (s *Service) Register(ctx context.Context, name, email, password, confirm string) (*Session, error) {
	if err := ValidateRegistration(name, email, password, confirm); err != nil {
		return nil, err
	}
	tr, err := s.backend.Register(ctx, api.Registration{
		Name:            strings.TrimSpace(name),
		Email:           strings.TrimSpace(email),
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		s.logger.Warn("register failed", "email", email, "kind", apperr.KindOf(err))
		return nil, err
	}
	return s.save(tr, true)
}

func (s *Service) save(tr *api.TokenResponse, remember bool) (*Session, error) {
	sess, err := s.store.Save(tr.AccessToken, Expiry(tr.AccessToken, tr.ExpiresIn, s.now()), remember)
	if err != nil {
		return nil, apperr.Unexpected("could not store session", err)
	}
	return sess, nil
}

// Verify asks the backend who the session belongs to. An unauthorized
// answer clears the session.
func (s *Service) Verify(ctx context.Context) (*api.User, error) {
	u, err := s.backend.Verify(ctx)
	if err != nil {
		if apperr.IsKind(err, apperr.KindUnauthorized) {
			_ = s.store.Clear()
		}
		return nil, err
	}
	return u, nil
}

// Logout tells the backend (best effort) and always clears locally.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", "err", err)
	}
	return s.store.Clear()
}

// Expire drops the session after an unauthorized response elsewhere.
func (s *Service) Expire() {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("clear session", "err", err)
	}
}
