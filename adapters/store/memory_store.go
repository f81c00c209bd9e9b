package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
)

// NonceFunc generates a fresh wallet nonce
type NonceFunc func() string

// MemoryWalletStore is an in-memory implementation of the WalletStore interface.
// State is lost on restart; intended for development and tests.
type MemoryWalletStore struct {
	wallets  map[string]string
	newNonce NonceFunc
	mu       sync.RWMutex
}

// NewMemoryWalletStore creates a new in-memory wallet store
func NewMemoryWalletStore(newNonce NonceFunc) ports.WalletStore {
	return &MemoryWalletStore{
		wallets:  make(map[string]string),
		newNonce: newNonce,
	}
}

// GetByID returns the wallet or nil when it does not exist
func (s *MemoryWalletStore) GetByID(ctx context.Context, id string) (*core.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nonce, exists := s.wallets[id]
	if !exists {
		return nil, nil
	}
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// GetOrCreate returns the wallet, inserting it under the same lock when missing
func (s *MemoryWalletStore) GetOrCreate(ctx context.Context, id string) (*core.Wallet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nonce, exists := s.wallets[id]; exists {
		return &core.Wallet{ID: id, Nonce: nonce}, false, nil
	}
	nonce := s.newNonce()
	s.wallets[id] = nonce
	return &core.Wallet{ID: id, Nonce: nonce}, true, nil
}

// Save creates or overwrites a wallet with a fresh nonce
func (s *MemoryWalletStore) Save(ctx context.Context, id string) (*core.Wallet, error) {
	nonce := s.newNonce()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets[id] = nonce
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// UpdateNonceByID regenerates the nonce of an existing wallet
func (s *MemoryWalletStore) UpdateNonceByID(ctx context.Context, id string) (*core.Wallet, error) {
	nonce := s.newNonce()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wallets[id]; !exists {
		return nil, nil
	}
	s.wallets[id] = nonce
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// CompareAndRotateNonce regenerates the nonce only while it still equals expected
func (s *MemoryWalletStore) CompareAndRotateNonce(ctx context.Context, id, expected string) (*core.Wallet, bool, error) {
	nonce := s.newNonce()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.wallets[id]
	if !exists {
		return nil, false, nil
	}
	if current != expected {
		return &core.Wallet{ID: id}, false, nil
	}
	s.wallets[id] = nonce
	return &core.Wallet{ID: id, Nonce: nonce}, true, nil
}

// MemorySessionStore is an in-memory implementation of the SessionStore interface
type MemorySessionStore struct {
	sessions map[string]core.Session
	mu       sync.RWMutex
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() ports.SessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]core.Session),
	}
}

// Create stores a session; the ttl is enforced through session.ExpiresAt
func (s *MemorySessionStore) Create(ctx context.Context, session *core.Session, ttl time.Duration) error {
	stored := *session
	if stored.ExpiresAt.IsZero() {
		stored.ExpiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = stored
	s.evictExpired(time.Now())
	return nil
}

// Get returns a live session
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, core.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session; deleting an unknown session is not an error
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// evictExpired drops expired sessions. Caller must hold the write lock.
func (s *MemorySessionStore) evictExpired(now time.Time) {
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
