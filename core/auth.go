package core

import "time"

// Wallet is the directory record for a wallet address
type Wallet struct {
	ID    string // Canonical (EIP-55) wallet address
	Nonce string // Current one-time challenge value
}

// Principal is the identity bound to a session after a successful login
type Principal struct {
	WalletAddress string
}

// Session represents an authenticated server-side session
type Session struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	IssuedAt      time.Time `json:"issuedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Principal returns the identity held by the session
func (s *Session) Principal() Principal {
	return Principal{WalletAddress: s.WalletAddress}
}

// SiweResult is the outcome of a successful SIWE verification
type SiweResult struct {
	Address string // Address recovered from the signature (EIP-55)
	Nonce   string // Nonce embedded in the signed message
	ChainID int
	Domain  string
}
