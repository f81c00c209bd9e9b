package eth

import (
	"fmt"
	"time"

	"github.com/spruceid/siwe-go"
)

// DefaultStatement is shown to the user by the wallet when signing in
const DefaultStatement = "Sign in with Ethereum to the ERC-20 Dashboard."

// MessageParams describes an EIP-4361 sign-in request
type MessageParams struct {
	Domain         string
	Address        string
	Statement      string
	URI            string
	ChainID        int
	Nonce          string
	IssuedAt       time.Time
	ExpirationTime time.Time
}

// BuildMessage renders params as an EIP-4361 message.
// IssuedAt defaults to now and ChainID to mainnet.
func BuildMessage(p MessageParams) (string, error) {
	issuedAt := p.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	chainID := p.ChainID
	if chainID == 0 {
		chainID = 1
	}

	options := map[string]interface{}{
		"chainId":  chainID,
		"issuedAt": issuedAt.UTC().Format(time.RFC3339),
	}
	if p.Statement != "" {
		options["statement"] = p.Statement
	}
	if !p.ExpirationTime.IsZero() {
		options["expirationTime"] = p.ExpirationTime.UTC().Format(time.RFC3339)
	}

	msg, err := siwe.InitMessage(p.Domain, p.Address, p.URI, p.Nonce, options)
	if err != nil {
		return "", fmt.Errorf("failed to build SIWE message: %w", err)
	}
	return msg.String(), nil
}
