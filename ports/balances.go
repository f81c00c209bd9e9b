package ports

import (
	"context"

	"github.com/layer-3/jumper/core"
)

// BalanceProvider fetches ERC-20 balances of an address on a single chain
type BalanceProvider interface {
	TokensForChain(ctx context.Context, chain core.Chain, address string) ([]core.Token, error)
}
