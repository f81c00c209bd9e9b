package eth

import "github.com/spruceid/siwe-go"

// NewNonce returns a random alphanumeric nonce accepted by the SIWE grammar
func NewNonce() string {
	return siwe.GenerateNonce()
}
