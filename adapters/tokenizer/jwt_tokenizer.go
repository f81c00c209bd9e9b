package tokenizer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/ports"
)

const AudienceSession = "session:cookie"

// JWTTokenizer implements the Tokenizer interface with HMAC-signed JWTs
type JWTTokenizer struct {
	secret []byte
	issuer string
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(secret, issuer string) ports.Tokenizer {
	return &JWTTokenizer{secret: []byte(secret), issuer: issuer}
}

// SessionToCookie converts a Session to a signed cookie value
func (j *JWTTokenizer) SessionToCookie(session *core.Session) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   session.WalletAddress,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	return signedToken, nil
}

// CookieToSessionID validates a cookie value and returns the session ID it carries
func (j *JWTTokenizer) CookieToSessionID(cookie string) (string, error) {
	token, err := jwt.ParseWithClaims(cookie, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithAudience(AudienceSession),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse session cookie: %w", errors.Join(core.ErrUnauthenticated, err))
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", core.ErrUnauthenticated
	}

	return claims.ID, nil
}
