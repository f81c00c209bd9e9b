package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/jumper/adapters/store"
	"github.com/layer-3/jumper/adapters/tokenizer"
	"github.com/layer-3/jumper/adapters/verifier"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/internal/eth"
	"github.com/layer-3/jumper/ports"
	"github.com/stretchr/testify/require"
)

// fixture wires an AuthService over in-memory stores
type fixture struct {
	auth     *AuthService
	wallets  *WalletService
	sessions *SessionService
	events   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	wallets := NewWalletService(store.NewMemoryWalletStore(eth.NewNonce))
	sessions := NewSessionService(
		store.NewMemorySessionStore(),
		tokenizer.NewJWTTokenizer("test-secret", "jumper"),
		15*time.Minute,
	)
	pub := &recordingPublisher{}

	return &fixture{
		auth:     NewAuthService(wallets, verifier.NewSiweVerifier(""), sessions, pub),
		wallets:  wallets,
		sessions: sessions,
		events:   pub,
	}
}

// wallet is a test signer
type wallet struct {
	key     *ecdsa.PrivateKey
	address string
}

func newWallet(t *testing.T) wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return wallet{key: key, address: eth.AddressOf(key)}
}

// sign builds a SIWE message for nonce claiming address and signs it with w
func (w wallet) sign(t *testing.T, address, nonce string) (string, string) {
	t.Helper()
	message, err := eth.BuildMessage(eth.MessageParams{
		Domain:    "localhost:3000",
		Address:   address,
		Statement: eth.DefaultStatement,
		URI:       "http://localhost:3000",
		ChainID:   1,
		Nonce:     nonce,
	})
	require.NoError(t, err)
	signature, err := eth.SignMessage(w.key, message)
	require.NoError(t, err)
	return message, signature
}

type recordedEvent struct {
	kind      string
	address   string
	sessionID string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishLogin(ctx context.Context, address, sessionID string) error {
	return p.record("login", address, sessionID)
}

func (p *recordingPublisher) PublishLogout(ctx context.Context, address, sessionID string) error {
	return p.record("logout", address, sessionID)
}

func (p *recordingPublisher) record(kind, address, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: kind, address: address, sessionID: sessionID})
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.kind)
	}
	return out
}

// failingSessionStore fails every delete
type failingSessionStore struct {
	inner ports.SessionStore
}

func (s failingSessionStore) Create(ctx context.Context, session *core.Session, ttl time.Duration) error {
	return s.inner.Create(ctx, session, ttl)
}

func (s failingSessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	return s.inner.Get(ctx, id)
}

func (s failingSessionStore) Delete(ctx context.Context, id string) error {
	return errors.New("redis: connection refused")
}

func lower(s string) string { return strings.ToLower(s) }
