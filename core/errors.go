package core

import "errors"

var (
	ErrInvalidAddress           = errors.New("invalid wallet address")
	ErrMalformedChallenge       = errors.New("malformed challenge message")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrUnknownWallet            = errors.New("wallet not registered or nonce no longer valid")
	ErrStaleNonce               = errors.New("nonce is no longer valid")
	ErrUnauthenticated          = errors.New("session missing or invalid")
	ErrSessionNotFound          = errors.New("session not found")
	ErrSessionDestructionFailed = errors.New("failed to destroy session")
	ErrNoChains                 = errors.New("no chains configured")
)
