package ports

import (
	"context"
	"time"

	"github.com/layer-3/jumper/core"
)

// WalletStore holds one wallet record per address. Every method is a
// single atomic operation on the backing store.
type WalletStore interface {
	// GetByID returns nil when the wallet does not exist
	GetByID(ctx context.Context, id string) (*core.Wallet, error)
	// GetOrCreate returns the wallet, creating it with a fresh nonce when it
	// does not exist. Concurrent calls for one id all see the same nonce;
	// created reports whether this call inserted the record.
	GetOrCreate(ctx context.Context, id string) (wallet *core.Wallet, created bool, err error)
	// Save creates or overwrites the wallet with a fresh nonce
	Save(ctx context.Context, id string) (*core.Wallet, error)
	// UpdateNonceByID regenerates the nonce, returns nil when the wallet does not exist
	UpdateNonceByID(ctx context.Context, id string) (*core.Wallet, error)
	// CompareAndRotateNonce regenerates the nonce only if it still equals expected.
	// Returns nil when the wallet does not exist and false when the nonce has moved on;
	// the returned nonce is only meaningful when the rotation succeeded.
	CompareAndRotateNonce(ctx context.Context, id, expected string) (*core.Wallet, bool, error)
}

// SessionStore keeps server-side session records
type SessionStore interface {
	Create(ctx context.Context, session *core.Session, ttl time.Duration) error
	// Get returns core.ErrSessionNotFound for unknown or expired sessions
	Get(ctx context.Context, id string) (*core.Session, error)
	Delete(ctx context.Context, id string) error
}
