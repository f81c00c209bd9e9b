// Package eth holds the Ethereum primitives shared by the auth core:
// address canonicalisation, EIP-191 signing and SIWE message construction.
package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/jumper/core"
)

// NormalizeAddress validates a hex address and returns its EIP-55 checksummed form.
// Checksummed and lower-case spellings of the same address map to the same key.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", core.ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}
