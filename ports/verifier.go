package ports

import (
	"context"

	"github.com/layer-3/jumper/core"
)

// SignatureVerifier validates a signed SIWE message.
// Fails with core.ErrMalformedChallenge or core.ErrInvalidSignature.
type SignatureVerifier interface {
	Verify(ctx context.Context, message, signature string) (*core.SiweResult, error)
}
