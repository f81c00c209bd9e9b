package service

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/jumper/adapters/store"
	"github.com/layer-3/jumper/adapters/tokenizer"
	"github.com/layer-3/jumper/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Authenticate(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(
		store.NewMemorySessionStore(),
		tokenizer.NewJWTTokenizer("test-secret", "jumper"),
		time.Minute,
	)
	principal := core.Principal{WalletAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}

	session, cookie, err := sessions.Bind(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, principal, session.Principal())
	assert.WithinDuration(t, session.IssuedAt.Add(time.Minute), session.ExpiresAt, time.Second)

	tests := []struct {
		name   string
		cookie string
		err    error
	}{
		{name: "valid", cookie: cookie},
		{name: "empty", cookie: "", err: core.ErrUnauthenticated},
		{name: "garbage", cookie: "not-a-jwt", err: core.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sessions.Authenticate(ctx, tt.cookie)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, session.ID, got.ID)
			assert.Equal(t, principal.WalletAddress, got.WalletAddress)
		})
	}
}

func TestSessionService_ForeignSecretIsRejected(t *testing.T) {
	ctx := context.Background()
	sessionStore := store.NewMemorySessionStore()
	issuer := NewSessionService(sessionStore, tokenizer.NewJWTTokenizer("one", "jumper"), time.Minute)
	checker := NewSessionService(sessionStore, tokenizer.NewJWTTokenizer("two", "jumper"), time.Minute)

	_, cookie, err := issuer.Bind(ctx, core.Principal{WalletAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"})
	require.NoError(t, err)

	_, err = checker.Authenticate(ctx, cookie)
	assert.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestSessionService_DestroyedSessionIsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(
		store.NewMemorySessionStore(),
		tokenizer.NewJWTTokenizer("test-secret", "jumper"),
		time.Minute,
	)

	session, cookie, err := sessions.Bind(ctx, core.Principal{WalletAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"})
	require.NoError(t, err)
	require.NoError(t, sessions.Destroy(ctx, session.ID))

	_, err = sessions.Authenticate(ctx, cookie)
	assert.ErrorIs(t, err, core.ErrUnauthenticated)
}
