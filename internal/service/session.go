package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookery/bookery/internal/auth"
	"github.com/bookery/bookery/internal/metrics"
	"github.com/bookery/bookery/internal/model"
	"github.com/bookery/bookery/internal/repository"
)

// SessionStore is the session persistence surface. *cache.Cache
// satisfies it.
type SessionStore interface {
	GetSession(ctx context.Context, tokenDigest string) (*model.Session, error)
	SetSession(ctx context.Context, tokenDigest string, session *model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, tokenDigest string) error
}

// CredentialStore looks up users for credential verification.
// *repository.Repository satisfies it.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionService issues, resolves and revokes server-side sessions.
type SessionService struct {
	users    CredentialStore
	sessions SessionStore
	ttl      time.Duration
	metrics  metrics.Recorder
}

// NewSessionService creates a new SessionService.
func NewSessionService(users CredentialStore, sessions SessionStore, ttl time.Duration, recorder metrics.Recorder) *SessionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SessionService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		metrics:  recorder,
	}
}

// dummyPasswordHash is verified against on the unknown-username path so
// a login attempt costs the same argon2 work either way.
var dummyPasswordHash = func() string {
	hash, err := auth.HashPassword("no-such-credential")
	if err != nil {
		panic(fmt.Sprintf("hash dummy credential: %v", err))
	}
	return hash
}()

// Login verifies the credentials and issues a new session token.
// Unknown username and wrong password are indistinguishable to the
// caller, in response and in verification cost.
func (s *SessionService) Login(ctx context.Context, username, password string) (string, *model.Session, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = auth.VerifyPassword(password, dummyPasswordHash)
			s.metrics.IncLogin("failure")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin("failure")
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.SetSession(ctx, auth.TokenDigest(token), session, s.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	s.metrics.IncLogin("success")

	return token, session, nil
}

// Resolve maps a presented token to its session, or nil for any
// missing, malformed, unknown or expired token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if !auth.ValidateTokenFormat(token) {
		return nil, nil
	}

	return s.sessions.GetSession(ctx, auth.TokenDigest(token))
}

// Logout revokes the session behind the token. Revoking an unknown
// token is not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}

	return s.sessions.DeleteSession(ctx, auth.TokenDigest(token))
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
