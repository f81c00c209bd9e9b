package balances

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDecimals = 18
	unknownName     = "Unknown Token"
	unknownSymbol   = "???"

	// metadataConcurrency bounds in-flight metadata calls per chain
	metadataConcurrency = 8
)

// tokenBalancesResult is the response of alchemy_getTokenBalances
type tokenBalancesResult struct {
	Address       string `json:"address"`
	TokenBalances []struct {
		ContractAddress string  `json:"contractAddress"`
		TokenBalance    *string `json:"tokenBalance"`
	} `json:"tokenBalances"`
}

// tokenMetadataResult is the response of alchemy_getTokenMetadata
type tokenMetadataResult struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
}

// AlchemyProvider implements the BalanceProvider interface on top of the
// Alchemy token JSON-RPC extensions.
type AlchemyProvider struct {
	urlFor func(chain core.Chain) string
}

// NewAlchemyProvider creates a provider. urlFor returns the JSON-RPC endpoint of a chain.
func NewAlchemyProvider(urlFor func(chain core.Chain) string) ports.BalanceProvider {
	return &AlchemyProvider{urlFor: urlFor}
}

// URLTemplate returns a urlFor function that fills template with the chain
// network slug and apiKey, e.g. "https://%s.g.alchemy.com/v2/%s".
func URLTemplate(template, apiKey string) func(chain core.Chain) string {
	return func(chain core.Chain) string {
		return fmt.Sprintf(template, chain.Network, apiKey)
	}
}

// TokensForChain returns the non-zero ERC-20 balances of address on chain
func (p *AlchemyProvider) TokensForChain(ctx context.Context, chain core.Chain, address string) ([]core.Token, error) {
	client, err := rpc.DialContext(ctx, p.urlFor(chain))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", chain.Name, err)
	}
	defer client.Close()

	var balances tokenBalancesResult
	if err := client.CallContext(ctx, &balances, "alchemy_getTokenBalances", address, "erc20"); err != nil {
		return nil, fmt.Errorf("failed to get token balances on %s: %w", chain.Name, err)
	}

	type held struct {
		contract string
		raw      *big.Int
	}
	holdings := make([]held, 0, len(balances.TokenBalances))
	for _, tb := range balances.TokenBalances {
		if tb.TokenBalance == nil {
			continue
		}
		raw, ok := parseHexQuantity(*tb.TokenBalance)
		if !ok || raw.Sign() == 0 {
			continue
		}
		holdings = append(holdings, held{contract: tb.ContractAddress, raw: raw})
	}

	tokens := make([]core.Token, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataConcurrency)
	for i, h := range holdings {
		g.Go(func() error {
			tokens[i] = p.token(gctx, client, chain, h.contract, h.raw)
			return nil
		})
	}
	_ = g.Wait()

	return tokens, nil
}

// token resolves metadata for one holding. Metadata failures degrade to a
// placeholder token with zero balance instead of failing the chain.
func (p *AlchemyProvider) token(ctx context.Context, client *rpc.Client, chain core.Chain, contract string, raw *big.Int) core.Token {
	var meta tokenMetadataResult
	if err := client.CallContext(ctx, &meta, "alchemy_getTokenMetadata", contract); err != nil {
		slog.Error("failed to fetch token metadata",
			slog.String("contract", contract),
			slog.String("chain", chain.Name),
			slog.Any("error", err),
		)
		return core.Token{
			Name:            unknownName,
			Symbol:          unknownSymbol,
			Balance:         decimal.Zero,
			ContractAddress: contract,
			ChainID:         chain.ID,
			ChainName:       chain.Name,
		}
	}

	decimals := defaultDecimals
	if meta.Decimals != nil && *meta.Decimals > 0 {
		decimals = *meta.Decimals
	}

	return core.Token{
		Name:            valueOr(meta.Name, unknownName),
		Symbol:          valueOr(meta.Symbol, unknownSymbol),
		Balance:         decimal.NewFromBigInt(raw, -int32(decimals)),
		ContractAddress: contract,
		ChainID:         chain.ID,
		ChainName:       chain.Name,
	}
}

// parseHexQuantity parses a 0x-prefixed hex number, tolerating zero padding
func parseHexQuantity(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return new(big.Int), true
	}
	return new(big.Int).SetString(s, 16)
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
