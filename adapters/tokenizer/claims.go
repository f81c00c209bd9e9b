package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by a session cookie.
// The JWT ID is the server-side session ID.
type SessionClaims struct {
	jwt.RegisteredClaims
}
