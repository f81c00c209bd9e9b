package balances

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/layer-3/jumper/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeAlchemy serves alchemy_* methods from canned results. A nil result
// for a method makes the server answer with a JSON-RPC error.
func fakeAlchemy(t *testing.T, balances any, metadata map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}

		var result any
		switch req.Method {
		case "alchemy_getTokenBalances":
			result = balances
		case "alchemy_getTokenMetadata":
			var contract string
			assert.NoError(t, json.Unmarshal(req.Params[0], &contract))
			result = metadata[contract]
		}

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if result == nil {
			resp["error"] = map[string]any{"code": -32000, "message": "unavailable"}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

var ethereum = core.Chain{ID: 1, Name: "Ethereum", Network: "eth-mainnet"}

func TestAlchemyProvider_TokensForChain(t *testing.T) {
	srv := fakeAlchemy(t,
		map[string]any{
			"address": "0xabc",
			"tokenBalances": []map[string]any{
				{"contractAddress": "0xusdc", "tokenBalance": "0x00000000000000000000000000000000000000000000000000000000004c4b40"},
				{"contractAddress": "0xzero", "tokenBalance": "0x0000000000000000000000000000000000000000000000000000000000000000"},
				{"contractAddress": "0xnull", "tokenBalance": nil},
				{"contractAddress": "0xbroken", "tokenBalance": "0x01"},
				{"contractAddress": "0xnameless", "tokenBalance": "0x0de0b6b3a7640000"},
			},
		},
		map[string]any{
			"0xusdc":     map[string]any{"name": "USD Coin", "symbol": "USDC", "decimals": 6},
			"0xnameless": map[string]any{"name": nil, "symbol": nil, "decimals": nil},
		},
	)
	defer srv.Close()

	p := NewAlchemyProvider(func(core.Chain) string { return srv.URL })
	tokens, err := p.TokensForChain(context.Background(), ethereum, "0xabc")
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	byContract := make(map[string]core.Token)
	for _, tok := range tokens {
		byContract[tok.ContractAddress] = tok
		assert.Equal(t, uint64(1), tok.ChainID)
		assert.Equal(t, "Ethereum", tok.ChainName)
	}

	usdc := byContract["0xusdc"]
	assert.Equal(t, "USD Coin", usdc.Name)
	assert.Equal(t, "USDC", usdc.Symbol)
	assert.True(t, decimal.NewFromInt(5).Equal(usdc.Balance), usdc.Balance.String())

	broken := byContract["0xbroken"]
	assert.Equal(t, "Unknown Token", broken.Name)
	assert.Equal(t, "???", broken.Symbol)
	assert.True(t, broken.Balance.IsZero())

	nameless := byContract["0xnameless"]
	assert.Equal(t, "Unknown Token", nameless.Name)
	assert.True(t, decimal.NewFromInt(1).Equal(nameless.Balance), nameless.Balance.String())
}

func TestAlchemyProvider_BalancesError(t *testing.T) {
	srv := fakeAlchemy(t, nil, nil)
	defer srv.Close()

	p := NewAlchemyProvider(func(core.Chain) string { return srv.URL })
	_, err := p.TokensForChain(context.Background(), ethereum, "0xabc")
	assert.Error(t, err)
}

func TestURLTemplate(t *testing.T) {
	urlFor := URLTemplate("https://%s.g.alchemy.com/v2/%s", "key")
	assert.Equal(t, "https://polygon-mainnet.g.alchemy.com/v2/key", urlFor(core.Chain{Network: "polygon-mainnet"}))
}

func TestParseHexQuantity(t *testing.T) {
	v, ok := parseHexQuantity("0x000000ff")
	require.True(t, ok)
	assert.Equal(t, int64(255), v.Int64())

	v, ok = parseHexQuantity("0x")
	require.True(t, ok)
	assert.Zero(t, v.Sign())

	_, ok = parseHexQuantity("0xzz")
	assert.False(t, ok)
}
