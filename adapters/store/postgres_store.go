package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
)

// PostgresWalletStore is a durable WalletStore backed by the wallets table.
// Each method is a single statement, so row-level locking provides atomicity.
type PostgresWalletStore struct {
	db       *pgxpool.Pool
	newNonce NonceFunc
}

// NewPostgresWalletStore creates a new Postgres wallet store
func NewPostgresWalletStore(db *pgxpool.Pool, newNonce NonceFunc) ports.WalletStore {
	return &PostgresWalletStore{db: db, newNonce: newNonce}
}

// GetByID returns the wallet or nil when it does not exist
func (s *PostgresWalletStore) GetByID(ctx context.Context, id string) (*core.Wallet, error) {
	var w core.Wallet
	err := s.db.QueryRow(ctx,
		`SELECT id, nonce FROM wallets WHERE id = $1`, id,
	).Scan(&w.ID, &w.Nonce)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &w, nil
}

// GetOrCreate inserts the wallet unless a row already exists, then reads the winner
func (s *PostgresWalletStore) GetOrCreate(ctx context.Context, id string) (*core.Wallet, bool, error) {
	var w core.Wallet
	err := s.db.QueryRow(ctx,
		`INSERT INTO wallets (id, nonce) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING
		 RETURNING id, nonce`,
		id, s.newNonce(),
	).Scan(&w.ID, &w.Nonce)
	if err == nil {
		return &w, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create wallet: %w", err)
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("failed to create wallet: %s disappeared", id)
	}
	return existing, false, nil
}

// Save creates or overwrites a wallet with a fresh nonce
func (s *PostgresWalletStore) Save(ctx context.Context, id string) (*core.Wallet, error) {
	var w core.Wallet
	err := s.db.QueryRow(ctx,
		`INSERT INTO wallets (id, nonce) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET nonce = EXCLUDED.nonce, updated_at = NOW()
		 RETURNING id, nonce`,
		id, s.newNonce(),
	).Scan(&w.ID, &w.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return &w, nil
}

// UpdateNonceByID regenerates the nonce of an existing wallet
func (s *PostgresWalletStore) UpdateNonceByID(ctx context.Context, id string) (*core.Wallet, error) {
	var w core.Wallet
	err := s.db.QueryRow(ctx,
		`UPDATE wallets SET nonce = $2, updated_at = NOW() WHERE id = $1 RETURNING id, nonce`,
		id, s.newNonce(),
	).Scan(&w.ID, &w.Nonce)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update nonce: %w", err)
	}
	return &w, nil
}

// CompareAndRotateNonce regenerates the nonce only while it still equals expected
func (s *PostgresWalletStore) CompareAndRotateNonce(ctx context.Context, id, expected string) (*core.Wallet, bool, error) {
	var w core.Wallet
	err := s.db.QueryRow(ctx,
		`UPDATE wallets SET nonce = $3, updated_at = NOW()
		 WHERE id = $1 AND nonce = $2
		 RETURNING id, nonce`,
		id, expected, s.newNonce(),
	).Scan(&w.ID, &w.Nonce)
	if err == nil {
		return &w, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to rotate nonce: %w", err)
	}

	// No row rotated: either the wallet is gone or the nonce moved on
	existing, err := s.GetByID(ctx, id)
	if err != nil || existing == nil {
		return nil, false, err
	}
	return &core.Wallet{ID: id}, false, nil
}
