package core

import "github.com/shopspring/decimal"

// Chain is a network the balance aggregator queries
type Chain struct {
	ID      uint64 // EIP-155 chain id
	Name    string // Display name, e.g. "Ethereum"
	Network string // Provider network slug, e.g. "eth-mainnet"
}

// DefaultChains are the networks supported out of the box
var DefaultChains = []Chain{
	{ID: 1, Name: "Ethereum", Network: "eth-mainnet"},
	{ID: 137, Name: "Polygon", Network: "polygon-mainnet"},
}

// Token is an ERC-20 balance held by a wallet on one chain
type Token struct {
	Name            string
	Symbol          string
	Balance         decimal.Decimal
	ContractAddress string
	ChainID         uint64
	ChainName       string
}
