package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
)

// AuthService handles the wallet sign-in protocol
type AuthService struct {
	wallets  *WalletService
	verifier ports.SignatureVerifier
	sessions *SessionService
	eventPub ports.EventPublisher
}

// NewAuthService creates a new authentication service
func NewAuthService(
	wallets *WalletService,
	verifier ports.SignatureVerifier,
	sessions *SessionService,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		wallets:  wallets,
		verifier: verifier,
		sessions: sessions,
		eventPub: eventPub,
	}
}

// Connect returns the current nonce of address, registering the wallet first
// when it is unknown. Repeated calls return the same nonce.
func (s *AuthService) Connect(ctx context.Context, address string) (string, error) {
	wallet, err := s.wallets.GetOrCreate(ctx, address)
	if err != nil {
		return "", err
	}
	return wallet.Nonce, nil
}

// Login verifies a signed SIWE message and burns its nonce.
// The returned principal is not yet bound to a session; see StartSession.
func (s *AuthService) Login(ctx context.Context, message, signature string) (*core.Principal, error) {
	result, err := s.verifier.Verify(ctx, message, signature)
	if err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetByID(ctx, result.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if wallet == nil {
		return nil, core.ErrUnknownWallet
	}
	if wallet.Nonce != result.Nonce {
		return nil, core.ErrStaleNonce
	}

	// The nonce may have moved since the read above; the store re-checks it
	if err := s.wallets.ConsumeNonce(ctx, wallet.ID, result.Nonce); err != nil {
		return nil, err
	}

	return &core.Principal{WalletAddress: wallet.ID}, nil
}

// StartSession binds principal to a new session and returns its cookie value
func (s *AuthService) StartSession(ctx context.Context, principal core.Principal) (*core.Session, string, error) {
	session, cookie, err := s.sessions.Bind(ctx, principal)
	if err != nil {
		return nil, "", err
	}

	if err := s.eventPub.PublishLogin(ctx, session.WalletAddress, session.ID); err != nil {
		slog.Warn("failed to publish login event",
			slog.String("address", session.WalletAddress),
			slog.Any("error", err),
		)
	}

	slog.Info("wallet logged in",
		slog.String("address", session.WalletAddress),
		slog.String("session_id", session.ID),
	)
	return session, cookie, nil
}

// Authenticate resolves a session cookie; see SessionService.Authenticate
func (s *AuthService) Authenticate(ctx context.Context, cookie string) (*core.Session, error) {
	return s.sessions.Authenticate(ctx, cookie)
}

// Logout destroys the session. Wallet nonces are left untouched.
func (s *AuthService) Logout(ctx context.Context, session *core.Session) error {
	if err := s.sessions.Destroy(ctx, session.ID); err != nil {
		return err
	}

	// The session is already gone, a lost event only affects other instances
	if err := s.eventPub.PublishLogout(ctx, session.WalletAddress, session.ID); err != nil {
		slog.Warn("failed to publish logout event",
			slog.String("address", session.WalletAddress),
			slog.Any("error", err),
		)
	}

	slog.Info("wallet logged out",
		slog.String("address", session.WalletAddress),
		slog.String("session_id", session.ID),
	)
	return nil
}
