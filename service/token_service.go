package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/internal/eth"
	"github.com/layer-3/jumper/ports"
	"golang.org/x/sync/errgroup"
)

// TokenService aggregates ERC-20 balances across the supported chains
type TokenService struct {
	provider     ports.BalanceProvider
	chains       []core.Chain
	chainTimeout time.Duration
}

// NewTokenService creates a new balance aggregator
func NewTokenService(provider ports.BalanceProvider, chains []core.Chain, chainTimeout time.Duration) *TokenService {
	return &TokenService{
		provider:     provider,
		chains:       chains,
		chainTimeout: chainTimeout,
	}
}

// WalletTokens queries every chain concurrently. A chain that fails or
// times out is logged and contributes no tokens; the call itself only fails
// when no chain can be queried at all.
func (s *TokenService) WalletTokens(ctx context.Context, address string) ([]core.Token, error) {
	if len(s.chains) == 0 {
		return nil, core.ErrNoChains
	}
	address, err := eth.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	perChain := make([][]core.Token, len(s.chains))

	var g errgroup.Group
	for i, chain := range s.chains {
		g.Go(func() error {
			perChain[i] = s.chainTokens(ctx, chain, address)
			return nil
		})
	}
	_ = g.Wait()

	tokens := make([]core.Token, 0)
	for _, chainTokens := range perChain {
		tokens = append(tokens, chainTokens...)
	}
	return tokens, nil
}

func (s *TokenService) chainTokens(ctx context.Context, chain core.Chain, address string) []core.Token {
	if s.chainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.chainTimeout)
		defer cancel()
	}

	tokens, err := s.provider.TokensForChain(ctx, chain, address)
	if err != nil {
		slog.Error("failed to fetch tokens",
			slog.String("chain", chain.Name),
			slog.Uint64("chain_id", chain.ID),
			slog.String("address", address),
			slog.Any("error", err),
		)
		return nil
	}
	return tokens
}
