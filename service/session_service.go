package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
)

// SessionService binds verified principals to server-side sessions
type SessionService struct {
	store     ports.SessionStore
	tokenizer ports.Tokenizer
	ttl       time.Duration
}

// NewSessionService creates a new session manager
func NewSessionService(store ports.SessionStore, tokenizer ports.Tokenizer, ttl time.Duration) *SessionService {
	return &SessionService{
		store:     store,
		tokenizer: tokenizer,
		ttl:       ttl,
	}
}

// TTL returns the lifetime of new sessions
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Bind creates a session for principal and returns it with its cookie value
func (s *SessionService) Bind(ctx context.Context, principal core.Principal) (*core.Session, string, error) {
	now := time.Now().UTC()
	session := &core.Session{
		ID:            uuid.New().String(),
		WalletAddress: principal.WalletAddress,
		IssuedAt:      now,
		ExpiresAt:     now.Add(s.ttl),
	}

	if err := s.store.Create(ctx, session, s.ttl); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	cookie, err := s.tokenizer.SessionToCookie(session)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session cookie: %w", err)
	}

	return session, cookie, nil
}

// Authenticate resolves a cookie value to a live session.
// Fails with core.ErrUnauthenticated for any missing, forged or expired session.
func (s *SessionService) Authenticate(ctx context.Context, cookie string) (*core.Session, error) {
	if cookie == "" {
		return nil, core.ErrUnauthenticated
	}

	id, err := s.tokenizer.CookieToSessionID(cookie)
	if err != nil {
		return nil, core.ErrUnauthenticated
	}

	session, err := s.store.Get(ctx, id)
	if errors.Is(err, core.ErrSessionNotFound) {
		return nil, core.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrUnauthenticated
	}

	return session, nil
}

// Destroy removes a session
func (s *SessionService) Destroy(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSessionDestructionFailed, err)
	}
	return nil
}
