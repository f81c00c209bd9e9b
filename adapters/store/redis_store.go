package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
	"github.com/redis/go-redis/v9"
)

// compareAndRotate swaps the nonce only when it still matches.
// Returns -1 when the key is missing, 0 on mismatch and 1 on success.
var compareAndRotate = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
	return -1
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2])
return 1
`)

// RedisWalletStore is a Redis implementation of the WalletStore interface
type RedisWalletStore struct {
	client   *redis.Client
	prefix   string
	newNonce NonceFunc
}

// NewRedisWalletStore creates a new Redis wallet store
func NewRedisWalletStore(client *redis.Client, newNonce NonceFunc) ports.WalletStore {
	return &RedisWalletStore{
		client:   client,
		prefix:   "jumper:wallet:",
		newNonce: newNonce,
	}
}

// GetByID returns the wallet or nil when it does not exist
func (s *RedisWalletStore) GetByID(ctx context.Context, id string) (*core.Wallet, error) {
	nonce, err := s.client.Get(ctx, s.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// GetOrCreate writes a fresh nonce with SET NX and reads back whichever nonce won
func (s *RedisWalletStore) GetOrCreate(ctx context.Context, id string) (*core.Wallet, bool, error) {
	nonce := s.newNonce()

	created, err := s.client.SetNX(ctx, s.prefix+id, nonce, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create wallet: %w", err)
	}
	if created {
		return &core.Wallet{ID: id, Nonce: nonce}, true, nil
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
func (s *RedisWalletStore) Save(ctx context.Context, id string) (*core.Wallet, error) {
	nonce := s.newNonce()
	if err := s.client.Set(ctx, s.prefix+id, nonce, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// UpdateNonceByID regenerates the nonce of an existing wallet
func (s *RedisWalletStore) UpdateNonceByID(ctx context.Context, id string) (*core.Wallet, error) {
	nonce := s.newNonce()

	// SET XX only writes when the key already exists
	updated, err := s.client.SetXX(ctx, s.prefix+id, nonce, 0).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to update nonce: %w", err)
	}
	if !updated {
		return nil, nil
	}
	return &core.Wallet{ID: id, Nonce: nonce}, nil
}

// CompareAndRotateNonce regenerates the nonce only while it still equals expected
func (s *RedisWalletStore) CompareAndRotateNonce(ctx context.Context, id, expected string) (*core.Wallet, bool, error) {
	nonce := s.newNonce()

	res, err := compareAndRotate.Run(ctx, s.client, []string{s.prefix + id}, expected, nonce).Int64()
	if err != nil {
		return nil, false, fmt.Errorf("failed to rotate nonce: %w", err)
	}

	switch res {
	case -1:
		return nil, false, nil
	case 0:
		return &core.Wallet{ID: id}, false, nil
	default:
		return &core.Wallet{ID: id, Nonce: nonce}, true, nil
	}
}

// RedisSessionStore is a Redis implementation of the SessionStore interface
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a new Redis session store
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "jumper:session:",
	}
}

// Create stores the session as JSON with the given TTL
func (s *RedisSessionStore) Create(ctx context.Context, session *core.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns a live session
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
