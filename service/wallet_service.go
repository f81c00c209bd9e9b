package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/internal/eth"
	"github.com/layer-3/jumper/ports"
)

// WalletService is the wallet directory: the only writer of nonce state.
// Addresses are normalised to EIP-55 before they are used as store keys.
type WalletService struct {
	store ports.WalletStore
}

// NewWalletService creates a new wallet directory
func NewWalletService(store ports.WalletStore) *WalletService {
	return &WalletService{store: store}
}

// GetByID returns the wallet for address, nil when it is not registered
func (s *WalletService) GetByID(ctx context.Context, address string) (*core.Wallet, error) {
	id, err := eth.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// GetOrCreate returns the wallet for address, registering it when unknown.
// Concurrent first-time calls all return the same nonce.
func (s *WalletService) GetOrCreate(ctx context.Context, address string) (*core.Wallet, error) {
	id, err := eth.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	wallet, created, err := s.store.GetOrCreate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to register wallet: %w", err)
	}
	if created {
		slog.Info("wallet registered", slog.String("address", id))
	}
	return wallet, nil
}

// Save registers address with a fresh nonce, replacing any previous nonce
func (s *WalletService) Save(ctx context.Context, address string) (*core.Wallet, error) {
	id, err := eth.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	wallet, err := s.store.Save(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	slog.Info("wallet registered", slog.String("address", id))
	return wallet, nil
}

// UpdateNonce regenerates the nonce of a registered wallet; nil when not registered
func (s *WalletService) UpdateNonce(ctx context.Context, address string) (*core.Wallet, error) {
	id, err := eth.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateNonceByID(ctx, id)
}

// ConsumeNonce burns nonce for address. It fails with core.ErrUnknownWallet when
// the wallet is not registered and core.ErrStaleNonce when nonce is not current.
// Of several concurrent calls with the same nonce at most one succeeds.
func (s *WalletService) ConsumeNonce(ctx context.Context, address, nonce string) error {
	id, err := eth.NormalizeAddress(address)
	if err != nil {
		return err
	}

	wallet, rotated, err := s.store.CompareAndRotateNonce(ctx, id, nonce)
	if err != nil {
		return fmt.Errorf("failed to rotate nonce: %w", err)
	}
	if wallet == nil {
		return core.ErrUnknownWallet
	}
	if !rotated {
		return core.ErrStaleNonce
	}

	slog.Debug("wallet nonce rotated", slog.String("address", id))
	return nil
}
