package verifier

import (
	"context"
	"fmt"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
	"github.com/spruceid/siwe-go"
)

// SiweVerifier implements the SignatureVerifier interface for EIP-4361 messages
// signed with EIP-191 personal_sign.
type SiweVerifier struct {
	domain *string
}

// NewSiweVerifier creates a verifier. When domain is not empty, messages
// issued for any other domain are rejected.
func NewSiweVerifier(domain string) ports.SignatureVerifier {
	v := &SiweVerifier{}
	if domain != "" {
		v.domain = &domain
	}
	return v
}

// Verify parses message, checks its validity window and recovers the signer.
// The recovered address must match the address embedded in the message.
func (v *SiweVerifier) Verify(ctx context.Context, message, signature string) (*core.SiweResult, error) {
	msg, err := siwe.ParseMessage(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedChallenge, err)
	}

	// Nonce matching is done against the wallet directory, not here
	if _, err := msg.Verify(signature, v.domain, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	return &core.SiweResult{
		Address: msg.GetAddress().Hex(),
		Nonce:   msg.GetNonce(),
		ChainID: msg.GetChainID(),
		Domain:  msg.GetDomain(),
	}, nil
}
